// internal/submission/resolve.go
package submission

import (
	"strings"

	"interview-portal/internal/models"
)

// Resolved is the single coherent view of an ApplicationData after the two
// shape families are merged. Nested values win for any field present in
// both; legacy values fill the gaps.
type Resolved struct {
	Position    models.Position
	Personal    models.NativePersonalInformation
	Address     models.NativeAddress
	Summary     string
	Skills      []string
	WorkHistory []models.NativeWorkHistory
	Education   []models.NativeEducation
	Preferences Preferences
	Disclosures models.Disclosures
	Identity    models.Identity
	Documents   models.AttachedDocuments
}

// Preferences keeps yes/no answers as "yes", "no" or "" for unanswered.
type Preferences struct {
	WorkAuthorized      string
	RequiresSponsorship string
	WillingToRelocate   string
	DesiredSalary       string
	AvailableStartDate  string
	ReferralSource      string
}

// Resolve merges data into one view. It never mutates data.
func Resolve(data models.ApplicationData) Resolved {
	var r Resolved

	if data.Position != nil {
		r.Position = *data.Position
	}

	lp := data.PersonalInfo
	np := models.NativePersonalInformation{}
	if data.PersonalInformation != nil {
		np = *data.PersonalInformation
	}
	r.Personal = models.NativePersonalInformation{
		FirstName:    pick(np.FirstName, lp.FirstName),
		LastName:     pick(np.LastName, lp.LastName),
		Email:        pick(np.Email, lp.Email),
		Phone:        pick(np.Phone, lp.Phone),
		LinkedInURL:  pick(np.LinkedInURL, lp.LinkedInURL),
		PortfolioURL: pick(np.PortfolioURL, lp.PortfolioURL),
	}

	la := data.AddressInfo
	na := models.NativeAddress{}
	if np.Address != nil {
		na = *np.Address
	}
	r.Address = models.NativeAddress{
		Street:     pick(na.Street, la.Street),
		City:       pick(na.City, la.City),
		State:      pick(na.State, la.State),
		PostalCode: pick(na.PostalCode, la.ZipCode),
		Country:    pick(na.Country, la.Country),
	}
	r.Personal.Address = &r.Address

	ne := models.NativeExperienceAndSkills{}
	if data.ExperienceAndSkills != nil {
		ne = *data.ExperienceAndSkills
	}
	r.Summary = pick(ne.Summary, data.Experience.Summary)
	r.Skills = resolveSkills(ne.Skills, data.Experience.Skills)
	r.WorkHistory = resolveWorkHistory(ne.WorkHistory, data.Experience.WorkExperience)
	r.Education = resolveEducation(ne.Education, data.Experience.Education)

	q := data.Questions
	prefs := models.ApplicationPreferences{}
	if data.ApplicationPreferences != nil {
		prefs = *data.ApplicationPreferences
	}
	r.Preferences = Preferences{
		WorkAuthorized:      pickYesNo(prefs.WorkAuthorized, q.WorkAuthorized),
		RequiresSponsorship: pickYesNo(prefs.RequiresSponsorship, q.RequiresSponsorship),
		WillingToRelocate:   pickYesNo(prefs.WillingToRelocate, q.WillingToRelocate),
		DesiredSalary:       pick(prefs.DesiredSalary, q.DesiredSalary),
		AvailableStartDate:  pick(prefs.AvailableStartDate, q.AvailableStartDate),
		ReferralSource:      pick(prefs.ReferralSource, q.ReferralSource),
	}

	r.Disclosures = data.Disclosures
	r.Identity = data.Identity
	r.Identity.Race = nonNil(data.Identity.Race)

	if data.AttachedDocuments != nil {
		r.Documents = *data.AttachedDocuments
	}
	r.Documents.Additional = nonNil(r.Documents.Additional)

	return r
}

// ApplicantName is "First Last" with empty parts dropped.
func (r Resolved) ApplicantName() string {
	return strings.TrimSpace(r.Personal.FirstName + " " + r.Personal.LastName)
}

func pick(nested, legacy string) string {
	if strings.TrimSpace(nested) != "" {
		return nested
	}
	return legacy
}

func pickYesNo(nested *bool, legacy string) string {
	if nested != nil {
		return yesNo(*nested)
	}
	switch strings.ToLower(strings.TrimSpace(legacy)) {
	case "yes", "true":
		return "yes"
	case "no", "false":
		return "no"
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// SplitSkills splits the comma delimited legacy skills string.
func SplitSkills(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func resolveSkills(nested []string, legacy string) []string {
	if len(nested) > 0 {
		out := make([]string, 0, len(nested))
		for _, s := range nested {
			if p := strings.TrimSpace(s); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return SplitSkills(legacy)
}

func resolveWorkHistory(nested []models.NativeWorkHistory, legacy []models.WorkExperience) []models.NativeWorkHistory {
	if len(nested) > 0 {
		out := make([]models.NativeWorkHistory, len(nested))
		copy(out, nested)
		return out
	}
	out := make([]models.NativeWorkHistory, 0, len(legacy))
	for _, w := range legacy {
		out = append(out, models.NativeWorkHistory{
			Company:     w.Company,
			JobTitle:    w.Title,
			StartDate:   w.StartDate,
			EndDate:     w.EndDate,
			IsCurrent:   w.Current,
			Description: w.Responsibilities,
		})
	}
	return out
}

func resolveEducation(nested []models.NativeEducation, legacy []models.Education) []models.NativeEducation {
	if len(nested) > 0 {
		out := make([]models.NativeEducation, len(nested))
		copy(out, nested)
		return out
	}
	out := make([]models.NativeEducation, 0, len(legacy))
	for _, e := range legacy {
		out = append(out, models.NativeEducation(e))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
