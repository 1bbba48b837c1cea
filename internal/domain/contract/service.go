package contract

import "context"

// ContractType tags rows of the merged contract listing.
type ContractType string

const (
	TypePrivate      ContractType = "private"
	TypeOrganization ContractType = "organization"
)

// ListRow is one entry of the merged private + organization listing. The
// date, amount, and organization fields are only set for organization
// contracts; ClientName only for private ones.
type ListRow struct {
	ID               string       `json:"id"`
	Number           string       `json:"number"`
	Type             ContractType `json:"type"`
	ClientName       string       `json:"clientName,omitempty"`
	OrganizationName string       `json:"organizationName,omitempty"`
	StartDate        string       `json:"startDate,omitempty"`
	EndDate          string       `json:"endDate,omitempty"`
	Amount           string       `json:"amount,omitempty"`
}

type Service struct {
	private PrivateContractRepository
	org     OrgContractRepository
}

func NewService(private PrivateContractRepository, org OrgContractRepository) *Service {
	return &Service{private: private, org: org}
}

// List merges private and organization contracts into one listing, private
// contracts first.
func (s *Service) List(ctx context.Context) ([]ListRow, error) {
	private, err := s.private.List(ctx)
	if err != nil {
		return nil, err
	}
	org, err := s.org.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ListRow, 0, len(private)+len(org))
	for _, c := range private {
		rows = append(rows, ListRow{
			ID:         c.ID.String(),
			Number:     c.Number,
			Type:       TypePrivate,
			ClientName: c.PatientName,
		})
	}
	for _, c := range org {
		rows = append(rows, ListRow{
			ID:               c.ID.String(),
			Number:           c.Number,
			Type:             TypeOrganization,
			OrganizationName: c.OrganizationName,
			StartDate:        c.StartDate.Format("2006-01-02"),
			EndDate:          c.EndDate.Format("2006-01-02"),
			Amount:           c.Balance.StringFixed(2),
		})
	}
	return rows, nil
}
