package services

import (
	"context"
	"fmt"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// DoctorService runs environment diagnostics against the local setup and
// the daemon.
type DoctorService struct {
	ConfigProvider ports.ConfigProvider
	Client         ports.AutomationClient
	State          ports.StateRepository
	History        ports.HistoryRepository
}

// Run executes checks and returns a report.
func (s *DoctorService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	if s.Client == nil {
		checks = append(checks, fail("Daemon endpoint", "client not configured"))
		return domain.HealthReport{Checks: checks}, nil
	}
	checks = append(checks, ok("Daemon endpoint", s.Client.BaseURL()))

	health, err := s.Client.Health(ctx)
	switch {
	case err != nil:
		checks = append(checks, fail("Daemon health", err.Error()))
	case !health.OK:
		checks = append(checks, warn("Daemon health", "daemon reports a non-ok status"))
	default:
		checks = append(checks, ok("Daemon health", fmt.Sprintf("online, %d documents indexed", health.DocumentCount)))
	}

	if err == nil {
		plugins, perr := s.Client.ListPlugins(ctx)
		if perr != nil {
			checks = append(checks, warn("Plugins", perr.Error()))
		} else {
			unsigned := 0
			for _, plugin := range plugins {
				if !plugin.SignatureValid() {
					unsigned++
				}
			}
			if unsigned > 0 {
				checks = append(checks, warn("Plugins", fmt.Sprintf("%d of %d manifests lack a valid signature", unsigned, len(plugins))))
			} else {
				checks = append(checks, ok("Plugins", fmt.Sprintf("%d manifests, all signed", len(plugins))))
			}
		}
	}

	if s.State != nil {
		if err := s.State.Save("ekupkaran.doctor", []byte(`{}`)); err != nil {
			checks = append(checks, warn("State store", fmt.Sprintf("not writable: %v", err)))
		} else {
			_ = s.State.Delete("ekupkaran.doctor")
			checks = append(checks, ok("State store", "writable"))
		}
	}

	if s.History != nil {
		if _, err := s.History.Records(1); err != nil {
			checks = append(checks, warn("Run history", err.Error()))
		} else {
			checks = append(checks, ok("Run history", "readable"))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.CheckOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.CheckWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.CheckError, Details: details}
}
