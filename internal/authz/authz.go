package authz

// Role represents a user role as issued by the upstream gateway
type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleFinance    Role = "finance"
	RoleOperations Role = "operations"
	RoleHR         Role = "hr"
	RoleViewer     Role = "viewer"
)

// Roles lists every recognized role
var Roles = []Role{
	RoleOwner,
	RoleAdmin,
	RoleManager,
	RoleFinance,
	RoleOperations,
	RoleHR,
	RoleViewer,
}

// IsValidRole reports whether a raw role string is a recognized role
func IsValidRole(s string) bool {
	for _, r := range Roles {
		if Role(s) == r {
			return true
		}
	}
	return false
}

// ReportCategory represents the broad grouping of a report
type ReportCategory string

const (
	CategoryFinancial   ReportCategory = "financial"
	CategoryOperational ReportCategory = "operational"
	CategoryAR          ReportCategory = "ar"
	CategorySales       ReportCategory = "sales"
)

// Report represents one entry of the static report catalogue
type Report struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Category     ReportCategory `json:"category"`
	AllowedRoles []Role         `json:"allowed_roles"`
}

// Catalogue is the fixed report catalogue. Administrative roles (owner,
// admin, manager) appear in every allowed set by data convention rather
// than by special-cased code, so category access falls out of plain set
// membership.
var Catalogue = []Report{
	{
		ID:           "revenue-by-customer",
		Name:         "Revenue by Customer",
		Category:     CategoryFinancial,
		AllowedRoles: []Role{RoleOwner, RoleAdmin, RoleManager, RoleFinance},
	},
	{
		ID:           "weekly-trend",
		Name:         "Weekly KPI Trend",
		Category:     CategoryFinancial,
		AllowedRoles: []Role{RoleOwner, RoleAdmin, RoleManager, RoleFinance},
	},
	{
		ID:           "ar-aging",
		Name:         "AR Aging",
		Category:     CategoryAR,
		AllowedRoles: []Role{RoleOwner, RoleAdmin, RoleManager, RoleFinance},
	},
	{
		ID:           "collection-rate",
		Name:         "Collection Rate",
		Category:     CategoryAR,
		AllowedRoles: []Role{RoleOwner, RoleAdmin, RoleManager, RoleFinance},
	},
	{
		ID:           "job-performance",
		Name:         "Job Order Performance",
		Category:     CategoryOperational,
		AllowedRoles: []Role{RoleOwner, RoleAdmin, RoleManager, RoleOperations},
	},
	{
		ID:           "expiring-documents",
		Name:         "Expiring Documents",
		Category:     CategoryOperational,
		AllowedRoles: []Role{RoleOwner, RoleAdmin, RoleManager, RoleOperations, RoleHR},
	},
	{
		ID:           "sales-pipeline",
		Name:         "Sales Pipeline",
		Category:     CategorySales,
		AllowedRoles: []Role{RoleOwner, RoleAdmin, RoleManager},
	},
}

// IsVisible reports whether a role is in the report's allowed set
func IsVisible(role Role, report Report) bool {
	for _, r := range report.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// VisibleReports returns the catalogue entries the role may view, in
// catalogue order.
func VisibleReports(role Role) []Report {
	var visible []Report
	for _, report := range Catalogue {
		if IsVisible(role, report) {
			visible = append(visible, report)
		}
	}
	return visible
}

// CanAccessReport reports whether a role may view the report with the given
// id. Unknown ids are simply not accessible.
func CanAccessReport(role Role, reportID string) bool {
	for _, report := range Catalogue {
		if report.ID == reportID {
			return IsVisible(role, report)
		}
	}
	return false
}

// CanAccessCategory reports whether the role may view at least one report
// in the category.
func CanAccessCategory(role Role, category ReportCategory) bool {
	for _, report := range Catalogue {
		if report.Category == category && IsVisible(role, report) {
			return true
		}
	}
	return false
}

// MappingRef identifies an external-id mapping by its owning connection and
// local table.
type MappingRef struct {
	ConnectionID string `json:"connection_id"`
	LocalTable   string `json:"local_table"`
}

// OwnsMapping reports whether a mapping belongs to the given connection and
// table. Plain structural equality; no partial matching.
func OwnsMapping(ref MappingRef, connectionID, localTable string) bool {
	return ref.ConnectionID == connectionID && ref.LocalTable == localTable
}
