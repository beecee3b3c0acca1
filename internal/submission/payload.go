// internal/submission/payload.go
package submission

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/models"
)

// Shape selects which upstream contract a payload targets.
type Shape string

const (
	ShapeLegacy Shape = "legacy"
	ShapeNested Shape = "nested"
)

// ParseShape accepts a shape name, falling back to def when s is empty.
func ParseShape(s string, def Shape) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case ShapeLegacy:
		return ShapeLegacy, nil
	case ShapeNested:
		return ShapeNested, nil
	}
	return "", apperrors.NewUnsupportedPayloadShapeError(s)
}

// Payload is an assembled, schema checked request body.
type Payload struct {
	Shape Shape           `json:"shape"`
	Body  json.RawMessage `json:"body"`
}

// LegacyPayload is the flat v1 contract.
type LegacyPayload struct {
	JobID        string `json:"jobId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	LinkedInURL  string `json:"linkedInUrl"`
	PortfolioURL string `json:"portfolioUrl"`

	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`

	Summary        string                  `json:"summary"`
	Skills         string                  `json:"skills"`
	WorkExperience []models.WorkExperience `json:"workExperience"`
	Education      []models.Education      `json:"education"`

	WorkAuthorized      string `json:"workAuthorized"`
	RequiresSponsorship string `json:"requiresSponsorship"`
	WillingToRelocate   string `json:"willingToRelocate"`
	DesiredSalary       string `json:"desiredSalary"`
	AvailableStartDate  string `json:"availableStartDate"`
	ReferralSource      string `json:"referralSource"`

	PreviouslyEmployed     string `json:"previouslyEmployed"`
	HasNonCompete          string `json:"hasNonCompete"`
	BackgroundCheckConsent string `json:"backgroundCheckConsent"`
	AttestTruthful         string `json:"attestTruthful"`

	Gender           string   `json:"gender"`
	HispanicLatino   string   `json:"hispanicLatino"`
	Race             []string `json:"race"`
	VeteranStatus    string   `json:"veteranStatus"`
	DisabilityStatus string   `json:"disabilityStatus"`

	ResumeURL      string `json:"resumeUrl"`
	CoverLetterURL string `json:"coverLetterUrl"`
}

// NestedPayload is the server-native v2 contract.
type NestedPayload struct {
	Position               models.Position                  `json:"position"`
	PersonalInformation    models.NativePersonalInformation `json:"personal_information"`
	ExperienceAndSkills    models.NativeExperienceAndSkills `json:"experience_and_skills"`
	ApplicationPreferences NestedPreferences                `json:"application_preferences"`
	Disclosures            NestedDisclosures                `json:"disclosures"`
	VoluntaryIdentity      NestedIdentity                   `json:"voluntary_self_identification"`
	AttachedDocuments      models.AttachedDocuments         `json:"attached_documents"`
}

// NestedPreferences encodes unanswered yes/no questions as null.
type NestedPreferences struct {
	WorkAuthorized      *bool  `json:"work_authorized"`
	RequiresSponsorship *bool  `json:"requires_sponsorship"`
	WillingToRelocate   *bool  `json:"willing_to_relocate"`
	DesiredSalary       string `json:"desired_salary"`
	AvailableStartDate  string `json:"available_start_date"`
	ReferralSource      string `json:"referral_source"`
}

type NestedDisclosures struct {
	PreviouslyEmployed     *bool `json:"previously_employed"`
	HasNonCompete          *bool `json:"has_non_compete"`
	BackgroundCheckConsent *bool `json:"background_check_consent"`
	AttestTruthful         *bool `json:"attest_truthful"`
}

type NestedIdentity struct {
	Gender           string   `json:"gender"`
	HispanicLatino   string   `json:"hispanic_latino"`
	Race             []string `json:"race"`
	VeteranStatus    string   `json:"veteran_status"`
	DisabilityStatus string   `json:"disability_status"`
}

func toLegacy(r Resolved) LegacyPayload {
	work := make([]models.WorkExperience, 0, len(r.WorkHistory))
	for _, w := range r.WorkHistory {
		work = append(work, models.WorkExperience{
			Company:          w.Company,
			Title:            w.JobTitle,
			StartDate:        w.StartDate,
			EndDate:          w.EndDate,
			Current:          w.IsCurrent,
			Responsibilities: w.Description,
		})
	}
	edu := make([]models.Education, 0, len(r.Education))
	for _, e := range r.Education {
		edu = append(edu, models.Education(e))
	}

	return LegacyPayload{
		JobID:        r.Position.JobID,
		FirstName:    r.Personal.FirstName,
		LastName:     r.Personal.LastName,
		Email:        r.Personal.Email,
		Phone:        r.Personal.Phone,
		LinkedInURL:  r.Personal.LinkedInURL,
		PortfolioURL: r.Personal.PortfolioURL,

		Street:  r.Address.Street,
		City:    r.Address.City,
		State:   r.Address.State,
		ZipCode: r.Address.PostalCode,
		Country: r.Address.Country,

		Summary:        r.Summary,
		Skills:         strings.Join(r.Skills, ", "),
		WorkExperience: work,
		Education:      edu,

		WorkAuthorized:      r.Preferences.WorkAuthorized,
		RequiresSponsorship: r.Preferences.RequiresSponsorship,
		WillingToRelocate:   r.Preferences.WillingToRelocate,
		DesiredSalary:       r.Preferences.DesiredSalary,
		AvailableStartDate:  r.Preferences.AvailableStartDate,
		ReferralSource:      r.Preferences.ReferralSource,

		PreviouslyEmployed:     r.Disclosures.PreviouslyEmployed,
		HasNonCompete:          r.Disclosures.HasNonCompete,
		BackgroundCheckConsent: r.Disclosures.BackgroundCheckConsent,
		AttestTruthful:         r.Disclosures.AttestTruthful,

		Gender:           r.Identity.Gender,
		HispanicLatino:   r.Identity.HispanicLatino,
		Race:             r.Identity.Race,
		VeteranStatus:    r.Identity.VeteranStatus,
		DisabilityStatus: r.Identity.DisabilityStatus,

		ResumeURL:      r.Documents.ResumeURL,
		CoverLetterURL: r.Documents.CoverLetterURL,
	}
}

func toNested(r Resolved) NestedPayload {
	personal := r.Personal
	addr := r.Address
	personal.Address = &addr

	return NestedPayload{
		Position:            r.Position,
		PersonalInformation: personal,
		ExperienceAndSkills: models.NativeExperienceAndSkills{
			Summary:     r.Summary,
			Skills:      r.Skills,
			WorkHistory: r.WorkHistory,
			Education:   r.Education,
		},
		ApplicationPreferences: NestedPreferences{
			WorkAuthorized:      boolPtr(r.Preferences.WorkAuthorized),
			RequiresSponsorship: boolPtr(r.Preferences.RequiresSponsorship),
			WillingToRelocate:   boolPtr(r.Preferences.WillingToRelocate),
			DesiredSalary:       r.Preferences.DesiredSalary,
			AvailableStartDate:  r.Preferences.AvailableStartDate,
			ReferralSource:      r.Preferences.ReferralSource,
		},
		Disclosures: NestedDisclosures{
			PreviouslyEmployed:     boolPtr(r.Disclosures.PreviouslyEmployed),
			HasNonCompete:          boolPtr(r.Disclosures.HasNonCompete),
			BackgroundCheckConsent: boolPtr(r.Disclosures.BackgroundCheckConsent),
			AttestTruthful:         boolPtr(r.Disclosures.AttestTruthful),
		},
		VoluntaryIdentity: NestedIdentity{
			Gender:           r.Identity.Gender,
			HispanicLatino:   r.Identity.HispanicLatino,
			Race:             r.Identity.Race,
			VeteranStatus:    r.Identity.VeteranStatus,
			DisabilityStatus: r.Identity.DisabilityStatus,
		},
		AttachedDocuments: r.Documents,
	}
}

func boolPtr(answer string) *bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "true":
		b := true
		return &b
	case "no", "false":
		b := false
		return &b
	}
	return nil
}

// Assemble maps data onto the contract for shape. It is pure: the same
// input always encodes to the same bytes.
func Assemble(data models.ApplicationData, shape Shape) (*Payload, error) {
	r := Resolve(data)

	var body interface{}
	switch shape {
	case ShapeLegacy:
		body = toLegacy(r)
	case ShapeNested:
		body = toNested(r)
	default:
		return nil, apperrors.NewUnsupportedPayloadShapeError(string(shape))
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", shape, err)
	}

	if err := checkSchema(shape, raw); err != nil {
		return nil, err
	}
	return &Payload{Shape: shape, Body: raw}, nil
}
