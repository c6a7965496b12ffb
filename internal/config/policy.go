package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"procurement-approval/internal/domain/sla"
	"procurement-approval/internal/domain/workflow"

	"gopkg.in/yaml.v3"
)

// Policy is the tunable part of the workflow: SLA budgets, the holiday
// calendar and who holds each role.
//
//	timezone: America/Bogota
//	budgets:
//	  validate: 2
//	  review: 3
//	holidays: ["2025-12-25"]
//	roles:
//	  validators: [U10]
//	  management: [U20, U21]
//	  admins: [U1]
//	  systems: [quotation-svc]
type Policy struct {
	Timezone string                `yaml:"timezone"`
	Budgets  map[workflow.Gate]int `yaml:"budgets"`
	Holidays []string              `yaml:"holidays"`
	Roles    RoleMembers           `yaml:"roles"`
}

type RoleMembers struct {
	Validators []string `yaml:"validators"`
	Management []string `yaml:"management"`
	Admins     []string `yaml:"admins"`
	Systems    []string `yaml:"systems"`
}

func DefaultPolicy() *Policy {
	return &Policy{
		Timezone: "UTC",
		Budgets:  sla.DefaultBudgets(),
	}
}

// LoadPolicy reads path over the defaults. A missing file is not an error.
func LoadPolicy(path string) (*Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}
	return ParsePolicy(b)
}

func ParsePolicy(b []byte) (*Policy, error) {
	var in Policy
	if err := yaml.Unmarshal(b, &in); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}
	p := DefaultPolicy()
	if in.Timezone != "" {
		p.Timezone = in.Timezone
	}
	for g, days := range in.Budgets {
		if _, ok := workflow.RuleFor(g); !ok {
			return nil, fmt.Errorf("policy: unknown gate %q", g)
		}
		if days < 0 {
			return nil, fmt.Errorf("policy: negative budget for %s", g)
		}
		p.Budgets[g] = days
	}
	p.Holidays = in.Holidays
	p.Roles = in.Roles
	if _, err := p.Location(); err != nil {
		return nil, err
	}
	if _, err := p.Calendar(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Policy) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("policy: timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

func (p *Policy) Calendar() (sla.HolidaySet, error) {
	dates := make([]time.Time, 0, len(p.Holidays))
	for _, h := range p.Holidays {
		d, err := time.Parse(time.DateOnly, h)
		if err != nil {
			return nil, fmt.Errorf("policy: holiday %q: %w", h, err)
		}
		dates = append(dates, d)
	}
	return sla.NewHolidaySet(dates...), nil
}

// Clock builds the SLA clock the policy describes.
func (p *Policy) Clock() (*sla.Clock, error) {
	loc, err := p.Location()
	if err != nil {
		return nil, err
	}
	cal, err := p.Calendar()
	if err != nil {
		return nil, err
	}
	return sla.NewClock(sla.Budgets(p.Budgets), cal, loc), nil
}
