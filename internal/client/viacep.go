package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"storefront/internal/config"
	"storefront/internal/model"
)

var (
	ErrInvalidCEP  = errors.New("cep must have 8 digits")
	ErrCEPNotFound = errors.New("cep not found")
)

var nonDigits = regexp.MustCompile(`\D`)

// AddressLookup resolves a Brazilian postal code (CEP) to an address.
type AddressLookup interface {
	LookupCEP(ctx context.Context, cep string) (*model.Address, error)
}

type viaCEPClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewViaCEPClient(cfg *config.ViaCEP) AddressLookup {
	return &viaCEPClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
	}
}

func (c *viaCEPClient) LookupCEP(ctx context.Context, cep string) (*model.Address, error) {
	clean := CleanCEP(cep)
	if !ValidCEP(clean) {
		return nil, ErrInvalidCEP
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/ws/%s/json/", c.baseURL, clean), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viacep request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: "viacep lookup failed"}
	}

	var res struct {
		Logradouro  string `json:"logradouro"`
		Complemento string `json:"complemento"`
		Bairro      string `json:"bairro"`
		Localidade  string `json:"localidade"`
		UF          string `json:"uf"`
		Erro        bool   `json:"erro"`
	}
	if err := decodeJSON(resp, &res); err != nil {
		return nil, fmt.Errorf("decode viacep response: %w", err)
	}
	if res.Erro {
		return nil, ErrCEPNotFound
	}

	return &model.Address{
		Street:       res.Logradouro,
		Complement:   res.Complemento,
		Neighborhood: res.Bairro,
		City:         res.Localidade,
		State:        res.UF,
		ZipCode:      FormatCEP(clean),
	}, nil
}

// CleanCEP strips everything but digits.
func CleanCEP(cep string) string {
	return nonDigits.ReplaceAllString(cep, "")
}

func ValidCEP(cep string) bool {
	return len(CleanCEP(cep)) == 8
}

// FormatCEP renders the canonical 01310-100 form.
func FormatCEP(cep string) string {
	clean := CleanCEP(cep)
	if len(clean) <= 5 {
		return clean
	}
	if len(clean) > 8 {
		clean = clean[:8]
	}
	return clean[:5] + "-" + clean[5:]
}
