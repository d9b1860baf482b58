package api

import (
	"fmt"
	"net/http"

	"github.com/akeil/bizgen"
)

// DocumentRequest is the form to generate one of the document kinds.
type DocumentRequest interface {
	Kind() bizgen.Kind
	Validate() error
}

type BusinessProposalRequest struct {
	UserID             int      `json:"user_id"`
	CompanyName        string   `json:"company_name"`
	ClientName         string   `json:"client_name"`
	ProjectTitle       string   `json:"project_title"`
	ProjectDescription string   `json:"project_description"`
	ServicesOffered    []string `json:"services_offered"`
	Timeline           string   `json:"timeline"`
	BudgetRange        string   `json:"budget_range"`
	ContactPerson      string   `json:"contact_person"`
	ContactEmail       string   `json:"contact_email"`
	LogoURL            string   `json:"logo_url"`
}

func (r BusinessProposalRequest) Kind() bizgen.Kind {
	return bizgen.BusinessProposal
}

func (r BusinessProposalRequest) Validate() error {
	return validateDocument(r.UserID,
		"Company name", r.CompanyName,
		"Client name", r.ClientName,
		"Project title", r.ProjectTitle)
}

type PartnershipAgreementRequest struct {
	UserID                 int      `json:"user_id"`
	Party1Name             string   `json:"party1_name"`
	Party1Address          string   `json:"party1_address"`
	Party2Name             string   `json:"party2_name"`
	Party2Address          string   `json:"party2_address"`
	PartnershipPurpose     string   `json:"partnership_purpose"`
	PartnershipDuration    string   `json:"partnership_duration"`
	ProfitSharingRatio     string   `json:"profit_sharing_ratio"`
	ResponsibilitiesParty1 []string `json:"responsibilities_party1"`
	ResponsibilitiesParty2 []string `json:"responsibilities_party2"`
	EffectiveDate          string   `json:"effective_date"`
	LogoURL                string   `json:"logo_url"`
}

func (r PartnershipAgreementRequest) Kind() bizgen.Kind {
	return bizgen.PartnershipAgreement
}

func (r PartnershipAgreementRequest) Validate() error {
	return validateDocument(r.UserID,
		"Party 1 name", r.Party1Name,
		"Party 2 name", r.Party2Name,
		"Partnership purpose", r.PartnershipPurpose)
}

type NDARequest struct {
	UserID                      int    `json:"user_id"`
	DisclosingParty             string `json:"disclosing_party"`
	ReceivingParty              string `json:"receiving_party"`
	Purpose                     string `json:"purpose"`
	ConfidentialInfoDescription string `json:"confidential_info_description"`
	Duration                    string `json:"duration"`
	GoverningLaw                string `json:"governing_law"`
	EffectiveDate               string `json:"effective_date"`
	LogoURL                     string `json:"logo_url"`
}

func (r NDARequest) Kind() bizgen.Kind {
	return bizgen.NDA
}

func (r NDARequest) Validate() error {
	return validateDocument(r.UserID,
		"Disclosing party", r.DisclosingParty,
		"Receiving party", r.ReceivingParty,
		"Purpose", r.Purpose)
}

type ContractRequest struct {
	UserID             int      `json:"user_id"`
	ContractType       string   `json:"contract_type"`
	Party1Name         string   `json:"party1_name"`
	Party1Address      string   `json:"party1_address"`
	Party2Name         string   `json:"party2_name"`
	Party2Address      string   `json:"party2_address"`
	ServiceDescription string   `json:"service_description"`
	ContractValue      string   `json:"contract_value"`
	PaymentTerms       string   `json:"payment_terms"`
	Duration           string   `json:"duration"`
	Deliverables       []string `json:"deliverables"`
	TermsConditions    []string `json:"terms_conditions"`
	EffectiveDate      string   `json:"effective_date"`
	LogoURL            string   `json:"logo_url"`
}

func (r ContractRequest) Kind() bizgen.Kind {
	return bizgen.Contract
}

func (r ContractRequest) Validate() error {
	return validateDocument(r.UserID,
		"Contract type", r.ContractType,
		"Party 1 name", r.Party1Name,
		"Party 2 name", r.Party2Name)
}

type TermsOfServiceRequest struct {
	UserID                int      `json:"user_id"`
	CompanyName           string   `json:"company_name"`
	WebsiteURL            string   `json:"website_url"`
	CompanyAddress        string   `json:"company_address"`
	ServiceDescription    string   `json:"service_description"`
	UserResponsibilities  []string `json:"user_responsibilities"`
	ProhibitedActivities  []string `json:"prohibited_activities"`
	PaymentTerms          string   `json:"payment_terms"`
	CancellationPolicy    string   `json:"cancellation_policy"`
	LimitationOfLiability string   `json:"limitation_of_liability"`
	GoverningLaw          string   `json:"governing_law"`
	ContactEmail          string   `json:"contact_email"`
	LogoURL               string   `json:"logo_url"`
}

func (r TermsOfServiceRequest) Kind() bizgen.Kind {
	return bizgen.TermsOfService
}

func (r TermsOfServiceRequest) Validate() error {
	return validateDocument(r.UserID,
		"Company name", r.CompanyName,
		"Website URL", r.WebsiteURL)
}

type PrivacyPolicyRequest struct {
	UserID              int      `json:"user_id"`
	CompanyName         string   `json:"company_name"`
	WebsiteURL          string   `json:"website_url"`
	CompanyAddress      string   `json:"company_address"`
	DataCollected       []string `json:"data_collected"`
	DataUsagePurpose    []string `json:"data_usage_purpose"`
	ThirdPartySharing   string   `json:"third_party_sharing"`
	DataRetentionPeriod string   `json:"data_retention_period"`
	UserRights          []string `json:"user_rights"`
	CookiesUsage        string   `json:"cookies_usage"`
	ContactEmail        string   `json:"contact_email"`
	GoverningLaw        string   `json:"governing_law"`
	EffectiveDate       string   `json:"effective_date"`
	LogoURL             string   `json:"logo_url"`
}

func (r PrivacyPolicyRequest) Kind() bizgen.Kind {
	return bizgen.PrivacyPolicy
}

func (r PrivacyPolicyRequest) Validate() error {
	return validateDocument(r.UserID,
		"Company name", r.CompanyName,
		"Website URL", r.WebsiteURL)
}

func validateDocument(userID int, pairs ...string) error {
	if userID <= 0 {
		return bizgen.NewValidationError("user id is required")
	}
	return required(pairs...)
}

// DocumentResponse is the union of the response fields of all document
// kinds.
type DocumentResponse struct {
	ID              int                    `json:"id"`
	UserID          int                    `json:"user_id"`
	Content         string                 `json:"ai_generated_content"`
	InputData       map[string]interface{} `json:"input_data"`
	DocsURL         string                 `json:"docs_url"`
	CreatedAt       DateTime               `json:"created_at"`
	UpdatedAt       DateTime               `json:"updated_at"`
	CompanyName     string                 `json:"company_name"`
	ClientName      string                 `json:"client_name"`
	ProjectTitle    string                 `json:"project_title"`
	ContactPerson   string                 `json:"contact_person"`
	ContactEmail    string                 `json:"contact_email"`
	Party1Name      string                 `json:"party1_name"`
	Party2Name      string                 `json:"party2_name"`
	DisclosingParty string                 `json:"disclosing_party"`
	ReceivingParty  string                 `json:"receiving_party"`
	Purpose         string                 `json:"purpose"`
	ContractType    string                 `json:"contract_type"`
	WebsiteURL      string                 `json:"website_url"`
}

// header lists the labeled fields shown above the content of a document.
func (r DocumentResponse) header(kind bizgen.Kind) []bizgen.Field {
	f := func(label, value string) bizgen.Field {
		return bizgen.Field{Label: label, Value: value}
	}
	switch kind {
	case bizgen.BusinessProposal:
		return []bizgen.Field{
			f("Company", r.CompanyName),
			f("Client", r.ClientName),
			f("Project", r.ProjectTitle),
		}
	case bizgen.PartnershipAgreement:
		return []bizgen.Field{
			f("Party 1", r.Party1Name),
			f("Party 2", r.Party2Name),
		}
	case bizgen.NDA:
		return []bizgen.Field{
			f("Disclosing Party", r.DisclosingParty),
			f("Receiving Party", r.ReceivingParty),
		}
	case bizgen.Contract:
		return []bizgen.Field{
			f("Type", r.ContractType),
			f("Party 1", r.Party1Name),
			f("Party 2", r.Party2Name),
		}
	case bizgen.TermsOfService, bizgen.PrivacyPolicy:
		return []bizgen.Field{
			f("Company", r.CompanyName),
			f("Website", r.WebsiteURL),
		}
	}
	return nil
}

func (r DocumentResponse) toDocument(kind bizgen.Kind) *bizgen.Document {
	logo, _ := r.InputData["logo_url"].(string)
	return &bizgen.Document{
		ID:      r.ID,
		Kind:    kind,
		UserID:  r.UserID,
		Content: r.Content,
		LogoURL: logo,
		Header:  r.header(kind),
		Created: r.CreatedAt.Time,
		Updated: r.UpdatedAt.Time,
	}
}

func documentsPath(kind bizgen.Kind, rest ...interface{}) string {
	p := "/documents/" + kind.Path()
	for _, r := range rest {
		p += fmt.Sprintf("/%v", r)
	}
	return p
}

// GenerateDocument submits a generation request and returns the generated
// document.
func (c *Client) GenerateDocument(r DocumentRequest) (*bizgen.Document, error) {
	err := r.Validate()
	if err != nil {
		return nil, err
	}

	var res DocumentResponse
	err = c.request(http.MethodPost, documentsPath(r.Kind()), r, &res)
	if err != nil {
		return nil, err
	}
	return res.toDocument(r.Kind()), nil
}

// ListDocuments returns the documents of one kind owned by a user.
func (c *Client) ListDocuments(kind bizgen.Kind, userID int) ([]*bizgen.Document, error) {
	err := kind.Validate()
	if err != nil {
		return nil, err
	}

	items := make([]DocumentResponse, 0)
	err = c.request(http.MethodGet, documentsPath(kind, "user", userID), nil, &items)
	if err != nil {
		return nil, err
	}

	docs := make([]*bizgen.Document, len(items))
	for i, item := range items {
		docs[i] = item.toDocument(kind)
	}
	return docs, nil
}

// FetchDocument retrieves a single document.
func (c *Client) FetchDocument(kind bizgen.Kind, id int) (*bizgen.Document, error) {
	err := kind.Validate()
	if err != nil {
		return nil, err
	}

	var res DocumentResponse
	err = c.request(http.MethodGet, documentsPath(kind, id), nil, &res)
	if err != nil {
		return nil, err
	}
	return res.toDocument(kind), nil
}

// UpdateDocument replaces the generated content of a document.
func (c *Client) UpdateDocument(kind bizgen.Kind, id int, content string) (*bizgen.Document, error) {
	err := kind.Validate()
	if err != nil {
		return nil, err
	}

	payload := struct {
		Content string `json:"ai_generated_content"`
	}{content}

	var res DocumentResponse
	err = c.request(http.MethodPut, documentsPath(kind, id), payload, &res)
	if err != nil {
		return nil, err
	}
	return res.toDocument(kind), nil
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(kind bizgen.Kind, id int) error {
	err := kind.Validate()
	if err != nil {
		return err
	}
	return c.request(http.MethodDelete, documentsPath(kind, id), nil, nil)
}
