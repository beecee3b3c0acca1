// internal/models/application.go
package models

// ApplicationData is the wizard's working document. The camelCase sections
// are filled step by step by the wizard; the snake_case pointer sections
// carry the server-native shape when a client already has it (prefilled from
// a profile or a previous application) and are nil otherwise.
type ApplicationData struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	AddressInfo  AddressInfo  `json:"addressInfo"`
	Experience   Experience   `json:"experience"`
	Questions    Questions    `json:"questions"`
	Disclosures  Disclosures  `json:"disclosures"`
	Identity     Identity     `json:"identity"`

	Position               *Position                  `json:"position,omitempty"`
	PersonalInformation    *NativePersonalInformation `json:"personal_information,omitempty"`
	ExperienceAndSkills    *NativeExperienceAndSkills `json:"experience_and_skills,omitempty"`
	ApplicationPreferences *ApplicationPreferences    `json:"application_preferences,omitempty"`
	AttachedDocuments      *AttachedDocuments         `json:"attached_documents,omitempty"`
}

// NewApplicationData returns the empty document a wizard starts from.
func NewApplicationData() ApplicationData {
	return ApplicationData{
		Experience: Experience{
			WorkExperience: []WorkExperience{},
			Education:      []Education{},
		},
		Identity: Identity{Race: []string{}},
	}
}

type PersonalInfo struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	LinkedInURL  string `json:"linkedInUrl"`
	PortfolioURL string `json:"portfolioUrl"`
}

type AddressInfo struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type Experience struct {
	Summary        string           `json:"summary"`
	Skills         string           `json:"skills"` // comma delimited
	WorkExperience []WorkExperience `json:"workExperience"`
	Education      []Education      `json:"education"`
}

type WorkExperience struct {
	Company          string `json:"company"`
	Title            string `json:"title"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	Current          bool   `json:"current"`
	Responsibilities string `json:"responsibilities"`
}

type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"fieldOfStudy"`
	GraduationYear string `json:"graduationYear"`
	GPA            string `json:"gpa"`
}

// Questions holds work authorization answers. Yes/no answers are "yes" or "no".
type Questions struct {
	WorkAuthorized      string `json:"workAuthorized"`
	RequiresSponsorship string `json:"requiresSponsorship"`
	WillingToRelocate   string `json:"willingToRelocate"`
	DesiredSalary       string `json:"desiredSalary"`
	AvailableStartDate  string `json:"availableStartDate"`
	ReferralSource      string `json:"referralSource"`
}

type Disclosures struct {
	PreviouslyEmployed     string `json:"previouslyEmployed"`
	HasNonCompete          string `json:"hasNonCompete"`
	BackgroundCheckConsent string `json:"backgroundCheckConsent"`
	AttestTruthful         string `json:"attestTruthful"`
}

// Identity is voluntary self identification. Race is multi-select.
type Identity struct {
	Gender           string   `json:"gender"`
	HispanicLatino   string   `json:"hispanicLatino"`
	Race             []string `json:"race"`
	VeteranStatus    string   `json:"veteranStatus"`
	DisabilityStatus string   `json:"disabilityStatus"`
}

// ==========================
// Server-native sections
// ==========================

type Position struct {
	JobID   string `json:"job_id"`
	Title   string `json:"title"`
	Company string `json:"company"`
}

type NativePersonalInformation struct {
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	LinkedInURL  string         `json:"linkedin_url"`
	PortfolioURL string         `json:"portfolio_url"`
	Address      *NativeAddress `json:"address,omitempty"`
}

type NativeAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type NativeExperienceAndSkills struct {
	Summary     string              `json:"summary"`
	Skills      []string            `json:"skills"`
	WorkHistory []NativeWorkHistory `json:"work_history"`
	Education   []NativeEducation   `json:"education"`
}

type NativeWorkHistory struct {
	Company     string `json:"company"`
	JobTitle    string `json:"job_title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsCurrent   bool   `json:"is_current"`
	Description string `json:"description"`
}

type NativeEducation struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"field_of_study"`
	GraduationYear string `json:"graduation_year"`
	GPA            string `json:"gpa"`
}

// ApplicationPreferences uses pointers so an unanswered question is
// distinguishable from "no".
type ApplicationPreferences struct {
	WorkAuthorized      *bool  `json:"work_authorized,omitempty"`
	RequiresSponsorship *bool  `json:"requires_sponsorship,omitempty"`
	WillingToRelocate   *bool  `json:"willing_to_relocate,omitempty"`
	DesiredSalary       string `json:"desired_salary"`
	AvailableStartDate  string `json:"available_start_date"`
	ReferralSource      string `json:"referral_source"`
}

type AttachedDocuments struct {
	ResumeURL      string   `json:"resume_url"`
	CoverLetterURL string   `json:"cover_letter_url"`
	Additional     []string `json:"additional"`
}
