// Package catalog holds the pricing plans offered on the marketing site.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var embedded []byte

type Plan struct {
	Name     string `yaml:"name" json:"name"`
	Price    string `yaml:"price" json:"price"`
	Hours    int    `yaml:"hours,omitempty" json:"hours,omitempty"`
	SetupFee string `yaml:"setupFee,omitempty" json:"setupFee,omitempty"`
	Popular  bool   `yaml:"popular,omitempty" json:"popular"`
}

// Service is one service line and its plan tiers, cheapest first.
type Service struct {
	Type  string `yaml:"type" json:"type"`
	Plans []Plan `yaml:"plans" json:"plans"`
}

type Catalog struct {
	Services []Service `yaml:"services" json:"services"`
}

// Parse decodes a YAML catalog and checks every plan is complete.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(c.Services) == 0 {
		return Catalog{}, errors.New("catalog has no services")
	}

	for _, s := range c.Services {
		if strings.TrimSpace(s.Type) == "" {
			return Catalog{}, errors.New("catalog service without type")
		}
		for i, p := range s.Plans {
			if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Price) == "" {
				return Catalog{}, fmt.Errorf("%s plan %d: name and price are required", s.Type, i)
			}
		}
	}
	return c, nil
}

// Embedded returns the catalog compiled into the binary.
func Embedded() (Catalog, error) {
	return Parse(embedded)
}

// Service looks up a service line by type, ignoring case.
func (c Catalog) Service(serviceType string) (Service, bool) {
	for _, s := range c.Services {
		if strings.EqualFold(s.Type, serviceType) {
			return s, true
		}
	}
	return Service{}, false
}
