package models

// RegistrationInfo is the applicant data a run is started with. Fields are
// unexported so the value cannot change once built.
type RegistrationInfo struct {
	name               string
	registrationNumber string
	email              string
	dryRun             bool
}

func NewRegistrationInfo(name, registrationNumber, email string, dryRun bool) RegistrationInfo {
	return RegistrationInfo{
		name:               name,
		registrationNumber: registrationNumber,
		email:              email,
		dryRun:             dryRun,
	}
}

func (r RegistrationInfo) Name() string               { return r.name }
func (r RegistrationInfo) RegistrationNumber() string { return r.registrationNumber }
func (r RegistrationInfo) Email() string              { return r.email }

// DryRun reports whether the answer should be computed but not submitted.
func (r RegistrationInfo) DryRun() bool { return r.dryRun }
