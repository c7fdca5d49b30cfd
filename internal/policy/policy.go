// Package policy holds the role predicates used by the competency
// submission, evaluation and read paths. Every function is pure.
package policy

import "github.com/joban727/medstintapp-sub005/internal/model"

// CanSubmitCompetencies reports whether role may record competency
// submissions or evaluations.
func CanSubmitCompetencies(role model.Role) bool {
	switch role {
	case model.RoleClinicalPreceptor,
		model.RoleClinicalSupervisor,
		model.RoleSuperAdmin,
		model.RoleSchoolAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether role is a super or school administrator.
func IsAdmin(role model.Role) bool {
	return role == model.RoleSuperAdmin || role == model.RoleSchoolAdmin
}

// ValidateSubmissionTarget guards against self evaluation. Administrators
// may submit for anyone, themselves included; every other role needs
// submitterID != studentID.
//
// Tenant isolation is not checked here.
func ValidateSubmissionTarget(submitterID, studentID string, submitterRole model.Role) bool {
	if IsAdmin(submitterRole) {
		return true
	}
	return submitterID != studentID
}

// CanEvaluateOnBehalf reports whether role may record an evaluation whose
// declared evaluator is another user.
func CanEvaluateOnBehalf(role model.Role) bool {
	return IsAdmin(role)
}

// CanViewCompetencies reports whether viewer may read studentID's
// competency data. Students see only themselves; staff roles see any
// student, subject to the caller's school filter.
func CanViewCompetencies(role model.Role, viewerID, studentID string) bool {
	switch role {
	case model.RoleStudent:
		return viewerID == studentID
	case model.RoleSuperAdmin,
		model.RoleSchoolAdmin,
		model.RoleClinicalSupervisor,
		model.RoleClinicalPreceptor:
		return true
	}
	return false
}
