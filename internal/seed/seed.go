// Package seed loads the service catalog and team memberships from a YAML
// file. Seeding is idempotent: every row is upserted by id.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/ports"

	"gopkg.in/yaml.v3"
)

type Member struct {
	UserID string `yaml:"user_id"`
	Leader bool   `yaml:"leader"`
	// Active defaults to true.
	Active *bool `yaml:"active"`
}

type Team struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Members []Member `yaml:"members"`
}

type Service struct {
	ID                     string `yaml:"id"`
	Name                   string `yaml:"name"`
	Type                   string `yaml:"type"`
	TeamID                 string `yaml:"team_id"`
	Mandatory              bool   `yaml:"mandatory"`
	RequiresCompletionNote bool   `yaml:"requires_completion_note"`
}

type File struct {
	Teams    []Team    `yaml:"teams"`
	Services []Service `yaml:"services"`
}

// Data is a parsed and validated seed file.
type Data struct {
	Memberships []access.Membership
	Services    []*catalog.Service
}

// Load reads and parses the seed file at path.
func Load(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(b)
}

// Parse decodes a seed document and builds the domain objects. All entries
// are checked; the joined errors are returned.
func Parse(b []byte) (Data, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Data{}, fmt.Errorf("parse seed file: %w", err)
	}

	var (
		data Data
		errs []error
	)
	for _, t := range f.Teams {
		teamID, err := kernel.UUIDFromString(t.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("team %q: %w", t.Name, err))
			continue
		}
		for _, m := range t.Members {
			membership, memberErr := toMembership(teamID, m)
			if memberErr != nil {
				errs = append(errs, fmt.Errorf("team %q member %q: %w", t.Name, m.UserID, memberErr))
				continue
			}
			data.Memberships = append(data.Memberships, membership)
		}
	}
	for _, s := range f.Services {
		service, err := toService(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("service %q: %w", s.Name, err))
			continue
		}
		data.Services = append(data.Services, service)
	}

	if err := errors.Join(errs...); err != nil {
		return Data{}, err
	}
	return data, nil
}

func toMembership(teamID kernel.UUID, m Member) (access.Membership, error) {
	userID, err := kernel.UUIDFromString(m.UserID)
	if err != nil {
		return access.Membership{}, err
	}
	active := m.Active == nil || *m.Active
	return access.NewMembership(teamID, userID, m.Leader, active)
}

func toService(s Service) (*catalog.Service, error) {
	id, idErr := kernel.UUIDFromString(s.ID)
	teamID, teamErr := kernel.UUIDFromString(s.TeamID)
	serviceType, typeErr := catalog.ParseType(s.Type)
	if err := errors.Join(idErr, teamErr, typeErr); err != nil {
		return nil, err
	}
	return catalog.NewService(id, s.Name, serviceType, teamID, catalog.Options{
		Mandatory:              s.Mandatory,
		RequiresCompletionNote: s.RequiresCompletionNote,
	})
}

// Apply writes data in one transaction.
func Apply(ctx context.Context, uow ports.UnitOfWork, data Data) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	for _, m := range data.Memberships {
		if err := uow.TeamRepository().SaveMembership(ctx, m); err != nil {
			return fmt.Errorf("save membership of %s in %s: %w", m.UserID(), m.TeamID(), err)
		}
	}
	for _, s := range data.Services {
		if err := uow.CatalogRepository().Save(ctx, s); err != nil {
			return fmt.Errorf("save service %q: %w", s.Name(), err)
		}
	}

	return uow.Commit(ctx)
}
