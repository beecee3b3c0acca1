// internal/wizard/validator.go
package wizard

import (
	"fmt"
	"strings"

	"interview-portal/internal/common/validation"
	"interview-portal/internal/models"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of checking one step.
type Result struct {
	Step       int          `json:"step"`
	CanAdvance bool         `json:"canAdvance"`
	Errors     []FieldError `json:"errors"`
}

type checker struct {
	errs []FieldError
}

func (c *checker) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.errs = append(c.errs, FieldError{Field: field, Message: "is required"})
		return false
	}
	return true
}

func (c *checker) fail(field, msg string) {
	c.errs = append(c.errs, FieldError{Field: field, Message: msg})
}

// Validate checks only the section that belongs to step.
func Validate(step int, data models.ApplicationData) Result {
	step = Clamp(step)
	c := &checker{}

	switch StepAt(step).Key {
	case StepInfo:
		validateInfo(c, data)
	case StepExperience:
		validateExperience(c, data.Experience)
	case StepQuestions:
		q := data.Questions
		c.required("questions.workAuthorized", q.WorkAuthorized)
		c.required("questions.requiresSponsorship", q.RequiresSponsorship)
		c.required("questions.willingToRelocate", q.WillingToRelocate)
	case StepDisclosures:
		d := data.Disclosures
		c.required("disclosures.previouslyEmployed", d.PreviouslyEmployed)
		c.required("disclosures.hasNonCompete", d.HasNonCompete)
		c.required("disclosures.backgroundCheckConsent", d.BackgroundCheckConsent)
		if !strings.EqualFold(strings.TrimSpace(d.AttestTruthful), "yes") {
			c.fail("disclosures.attestTruthful", "must be accepted")
		}
	case StepIdentity, StepReview:
		// voluntary
	}

	errs := c.errs
	if errs == nil {
		errs = []FieldError{}
	}
	return Result{Step: step, CanAdvance: len(errs) == 0, Errors: errs}
}

// ValidateAll checks every step in order and combines the field errors.
// Step is the first failing step, or FinalStep when the document passes.
func ValidateAll(data models.ApplicationData) Result {
	out := Result{Step: FinalStep, Errors: []FieldError{}}
	for step := FirstStep; step <= FinalStep; step++ {
		res := Validate(step, data)
		if !res.CanAdvance && len(out.Errors) == 0 {
			out.Step = step
		}
		out.Errors = append(out.Errors, res.Errors...)
	}
	out.CanAdvance = len(out.Errors) == 0
	return out
}

func validateInfo(c *checker, data models.ApplicationData) {
	p := data.PersonalInfo
	c.required("personalInfo.firstName", p.FirstName)
	c.required("personalInfo.lastName", p.LastName)
	if c.required("personalInfo.email", p.Email) && !validation.ValidateEmail(strings.TrimSpace(p.Email)) {
		c.fail("personalInfo.email", "must be a valid email address")
	}
	if c.required("personalInfo.phone", p.Phone) && !validation.ValidatePhone(strings.TrimSpace(p.Phone)) {
		c.fail("personalInfo.phone", "must be a valid phone number")
	}
	if p.LinkedInURL != "" && !validation.ValidateURL(p.LinkedInURL) {
		c.fail("personalInfo.linkedInUrl", "must be a valid URL")
	}
	if p.PortfolioURL != "" && !validation.ValidateURL(p.PortfolioURL) {
		c.fail("personalInfo.portfolioUrl", "must be a valid URL")
	}

	a := data.AddressInfo
	c.required("addressInfo.street", a.Street)
	c.required("addressInfo.city", a.City)
	c.required("addressInfo.state", a.State)
	c.required("addressInfo.zipCode", a.ZipCode)
}

func validateExperience(c *checker, e models.Experience) {
	c.required("experience.skills", e.Skills)

	for i, w := range e.WorkExperience {
		prefix := fmt.Sprintf("experience.workExperience[%d]", i)
		c.required(prefix+".company", w.Company)
		c.required(prefix+".title", w.Title)
		c.required(prefix+".startDate", w.StartDate)
		if !w.Current {
			c.required(prefix+".endDate", w.EndDate)
		}
	}
	for i, ed := range e.Education {
		prefix := fmt.Sprintf("experience.education[%d]", i)
		c.required(prefix+".institution", ed.Institution)
		c.required(prefix+".degree", ed.Degree)
		if ed.GraduationYear != "" && !validation.ValidateYear(ed.GraduationYear) {
			c.fail(prefix+".graduationYear", "must be a four digit year")
		}
	}
}
