package authz

import (
	"fmt"

	"auction-backoffice/internal/apperror"

	"github.com/google/uuid"
)

// Resource identifies a kind of organisation-owned entity guarded by the
// permission table.
type Resource string

const (
	ResourceOrganisation Resource = "organisation"
	ResourceClients      Resource = "clients"
	ResourceSellers      Resource = "sellers"
	ResourceLots         Resource = "lots"
	ResourceSales        Resource = "sales"
	ResourceInventories  Resource = "inventories"
	ResourceInvoices     Resource = "invoices"
	ResourceUsers        Resource = "users"
	ResourceMails        Resource = "mails"
)

// Resources lists every resource kind covered by the permission table.
var Resources = []Resource{
	ResourceOrganisation,
	ResourceClients,
	ResourceSellers,
	ResourceLots,
	ResourceSales,
	ResourceInventories,
	ResourceInvoices,
	ResourceUsers,
	ResourceMails,
}

// Action is an operation on a resource kind.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Actions lists every action covered by the permission table.
var Actions = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}

type grant struct {
	resource Resource
	action   Action
}

// tierGrants holds what each tier ADDS on top of the tiers below it. The
// effective permission set of a role is the union of its tier and every lower
// tier, which keeps the hierarchy monotonic by construction.
var tierGrants = map[Role][]grant{
	RoleViewer: viewAll(),
	RoleAccountant: {
		{ResourceInvoices, ActionEdit},
	},
	RoleExternalOperator: {
		{ResourceLots, ActionEdit},
		{ResourceSales, ActionEdit},
	},
	RoleOperator: editCreateBusiness(),
	RoleManager:  deleteBusiness(),
	RoleOwner: {
		{ResourceUsers, ActionCreate},
		{ResourceUsers, ActionEdit},
		{ResourceUsers, ActionDelete},
		{ResourceOrganisation, ActionDelete},
	},
}

func viewAll() []grant {
	grants := make([]grant, 0, len(Resources))
	for _, resource := range Resources {
		grants = append(grants, grant{resource, ActionView})
	}
	return grants
}

// businessResources are every resource except user management, which stays
// owner-only.
func businessResources() []Resource {
	var resources []Resource
	for _, resource := range Resources {
		if resource == ResourceUsers {
			continue
		}
		resources = append(resources, resource)
	}
	return resources
}

func editCreateBusiness() []grant {
	var grants []grant
	for _, resource := range businessResources() {
		grants = append(grants, grant{resource, ActionEdit}, grant{resource, ActionCreate})
	}
	return grants
}

func deleteBusiness() []grant {
	var grants []grant
	for _, resource := range businessResources() {
		if resource == ResourceOrganisation {
			// Deleting the organisation itself stays owner-only.
			continue
		}
		grants = append(grants, grant{resource, ActionDelete})
	}
	return grants
}

// HasPermission reports whether the role permits the action on the resource
// kind. Pure lookup, no I/O.
func HasPermission(role Role, resource Resource, action Action) bool {
	rank := role.Rank()
	if rank < 0 {
		return false
	}
	for _, tier := range Roles {
		if tier.Rank() > rank {
			break
		}
		for _, g := range tierGrants[tier] {
			if g.resource == resource && g.action == action {
				return true
			}
		}
	}
	return false
}

// RequirePermission returns a permission-denied error when the role does not
// permit the action.
func RequirePermission(role Role, resource Resource, action Action) error {
	if HasPermission(role, resource, action) {
		return nil
	}
	return apperror.New(apperror.KindPermissionDenied,
		fmt.Sprintf("role %q is not allowed to %s %s", role, action, resource))
}

// RequireOrganisationAccess rejects callers whose token scope does not include
// the requested organisation. This is the cross-tenant isolation boundary:
// every read or write on organisation-owned data must pass it first.
func RequireOrganisationAccess(claims *Claims, orgaUUID uuid.UUID) error {
	for _, scoped := range claims.OrgaUUIDs {
		if scoped == orgaUUID {
			return nil
		}
	}
	return apperror.New(apperror.KindForbidden, "user not authorized for this organisation")
}
