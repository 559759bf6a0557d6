package service

import "github.com/lesdavils/MedimexResolv/internal/model"

// Feature names exposed to the presentation collaborator. The frontend asks
// CanView instead of hardcoding role checks per widget.
const (
	FeatureDashboard     = "dashboard"
	FeatureTickets       = "tickets"
	FeatureInterventions = "interventions"
	FeatureClients       = "clients"
	FeatureMachines      = "machines"
	FeatureParts         = "parts"
	FeatureUsers         = "users"
	FeatureReports       = "reports"
)

var featureRoles = map[string][]string{
	FeatureDashboard:     {model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician, model.RoleReferent, model.RoleManufacturer},
	FeatureTickets:       {model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician, model.RoleReferent},
	FeatureInterventions: {model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician},
	FeatureClients:       {model.RoleAdmin, model.RoleSupervisor},
	FeatureMachines:      {model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician, model.RoleManufacturer},
	FeatureParts:         {model.RoleAdmin, model.RoleSupervisor, model.RoleTechnician},
	FeatureUsers:         {model.RoleAdmin},
	FeatureReports:       {model.RoleAdmin, model.RoleSupervisor},
}

// CanView reports whether a role may see a feature.
func CanView(role, feature string) bool {
	for _, r := range featureRoles[feature] {
		if r == role {
			return true
		}
	}
	return false
}

// Features returns the ordered feature list visible to a role.
func Features(role string) []string {
	ordered := []string{
		FeatureDashboard, FeatureTickets, FeatureInterventions,
		FeatureClients, FeatureMachines, FeatureParts,
		FeatureUsers, FeatureReports,
	}
	var out []string
	for _, f := range ordered {
		if CanView(role, f) {
			out = append(out, f)
		}
	}
	return out
}
