package minhareceita

import (
	"strings"

	"pontodigital/cmd/internal/domain/entity"
)

type companyResponse struct {
	CNPJ               string `json:"cnpj"`
	LegalName          string `json:"razao_social"`
	TradeName          string `json:"nome_fantasia"`
	RegistrationStatus string `json:"descricao_situacao_cadastral"`

	AddressType         string `json:"descricao_tipo_de_logradouro"`
	AddressStreetName   string `json:"logradouro"`
	AddressNumber       string `json:"numero"`
	AddressNeighborhood string `json:"bairro"`
	AddressCity         string `json:"municipio"`
	AddressState        string `json:"uf"`
	AddressZipCode      string `json:"cep"`

	Partners []*partnerResponse `json:"qsa"`
}

type partnerResponse struct {
	Name string `json:"nome_socio"`
	Role string `json:"qualificacao_socio"`
}

func (c *companyResponse) ToDomain() *entity.CNPJLookup {
	partners := make([]*entity.CNPJPartner, 0, len(c.Partners))
	for _, p := range c.Partners {
		partners = append(partners, &entity.CNPJPartner{
			LookupCNPJ: c.CNPJ,
			Name:       p.Name,
			Role:       p.Role,
		})
	}

	street := strings.TrimSpace(c.AddressType + " " + c.AddressStreetName)
	return &entity.CNPJLookup{
		CNPJ:                c.CNPJ,
		LegalName:           c.LegalName,
		TradeName:           c.TradeName,
		RegStatus:           translateStatus(c.RegistrationStatus),
		AddressStreet:       street,
		AddressNumber:       c.AddressNumber,
		AddressNeighborhood: c.AddressNeighborhood,
		AddressCity:         c.AddressCity,
		AddressState:        c.AddressState,
		AddressZipCode:      c.AddressZipCode,
		Partners:            partners,
	}
}

func translateStatus(status string) entity.RegStatus {
	switch strings.ToUpper(status) {
	case "ATIVA":
		return entity.StatusActive
	case "BAIXADA":
		return entity.StatusClosed
	case "SUSPENSA":
		return entity.StatusSuspended
	case "INAPTA":
		return entity.StatusUnfit
	default:
		return entity.StatusUnknown
	}
}
