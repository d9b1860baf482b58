package bizgen

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the type of a generated document.
type Kind int

const (
	BusinessProposal Kind = iota
	PartnershipAgreement
	NDA
	Contract
	TermsOfService
	PrivacyPolicy
)

var allKinds = []Kind{
	BusinessProposal,
	PartnershipAgreement,
	NDA,
	Contract,
	TermsOfService,
	PrivacyPolicy,
}

var kindPaths = map[Kind]string{
	BusinessProposal:     "business-proposal",
	PartnershipAgreement: "partnership-agreement",
	NDA:                  "nda",
	Contract:             "contract",
	TermsOfService:       "terms-of-service",
	PrivacyPolicy:        "privacy-policy",
}

var kindTitles = map[Kind]string{
	BusinessProposal:     "Business Proposal",
	PartnershipAgreement: "Partnership Agreement",
	NDA:                  "Non-Disclosure Agreement",
	Contract:             "Contract",
	TermsOfService:       "Terms of Service",
	PrivacyPolicy:        "Privacy Policy",
}

// Kinds lists all document kinds.
func Kinds() []Kind {
	k := make([]Kind, len(allKinds))
	copy(k, allKinds)
	return k
}

// Path is the URL path segment used by the backend for this kind.
func (k Kind) Path() string {
	return kindPaths[k]
}

// Title is the display title, also used as the heading for exports.
func (k Kind) Title() string {
	return kindTitles[k]
}

func (k Kind) String() string {
	return k.Path()
}

// Validate checks if k is one of the known kinds.
func (k Kind) Validate() error {
	if _, ok := kindPaths[k]; !ok {
		return NewValidationError("invalid document kind %d", int(k))
	}
	return nil
}

// ParseKind resolves a kind from its path segment.
// A few short aliases are accepted as well.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "proposal":
		return BusinessProposal, nil
	case "partnership":
		return PartnershipAgreement, nil
	case "tos", "terms":
		return TermsOfService, nil
	case "privacy":
		return PrivacyPolicy, nil
	}
	for k, p := range kindPaths {
		if p == s {
			return k, nil
		}
	}
	return 0, NewValidationError("unknown document kind %q", s)
}

// Field is a labeled value shown above the document content,
// e.g. "Disclosing Party: ACME".
type Field struct {
	Label string
	Value string
}

func (f Field) String() string {
	return fmt.Sprintf("%v: %v", f.Label, f.Value)
}

// A Document is a generated long-form document such as an NDA or a policy.
//
// Content holds the generated markdown-like text.
type Document struct {
	ID      int
	Kind    Kind
	UserID  int
	Content string
	LogoURL string
	Header  []Field
	Created time.Time
	Updated time.Time
}

// Name returns a file name for the document, without extension.
//
// This is the first non-empty header value, or the kind path.
func (d *Document) Name() string {
	for _, f := range d.Header {
		v := strings.TrimSpace(f.Value)
		if v != "" {
			return sanitizeName(v)
		}
	}
	return d.Kind.Path()
}

// Title is the heading for exports.
func (d *Document) Title() string {
	return d.Kind.Title()
}

func (d *Document) Validate() error {
	err := d.Kind.Validate()
	if err != nil {
		return err
	}
	if d.ID < 0 {
		return NewValidationError("invalid document id %d", d.ID)
	}
	return nil
}

// Pages splits the content into pages with the default page size.
func (d *Document) Pages() []Page {
	return Paginate(d.Content, WordsPerPage)
}

func sanitizeName(s string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\n", " ")
	return r.Replace(s)
}
