package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/config"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/password"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	hasher       password.Hasher
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:     tc,
		hasher: &password.BcryptHasher{Cost: 4},
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(s.reset)

	// Background steps
	sc.Step(`^an impersonate-auth server is running$`, s.aServerIsRunning)
	sc.Step(`^a user "([^"]*)" with password "([^"]*)"$`, s.aUserWithPassword)
	sc.Step(`^a superuser "([^"]*)" with password "([^"]*)"$`, s.aSuperuserWithPassword)
	sc.Step(`^a staff user "([^"]*)" with password "([^"]*)"$`, s.aStaffUserWithPassword)
	sc.Step(`^user "([^"]*)" is inactive$`, s.userIsInactive)
	sc.Step(`^the impersonation separator is "([^"]*)"$`, s.theSeparatorIs)

	// Request steps
	sc.Step(`^I log in as "([^"]*)" with secret "([^"]*)"$`, s.iLogInAs)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should be logged in as "([^"]*)" by "([^"]*)"$`, s.iShouldBeLoggedInAs)
	sc.Step(`^an audit message "([^"]*)" should be recorded$`, s.anAuditMessageShouldBeRecorded)
	sc.Step(`^no "([^"]*)" audit message should be recorded$`, s.noAuditMessageShouldBeRecorded)
}

func (s *StepsContext) reset(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
	s.response = nil
	s.responseBody = nil
	if s.tc.InlineMode {
		config.Set(config.New())
	}
	return ctx, s.tc.DB.Exec(`TRUNCATE users, messages`).Error
}

func (s *StepsContext) aServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) createUser(username, pw string, superuser, staff bool) error {
	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return err
	}
	return s.tc.Users.CreateUser(context.Background(), &model.User{
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  superuser,
		IsStaff:      staff,
	})
}

func (s *StepsContext) aUserWithPassword(username, pw string) error {
	return s.createUser(username, pw, false, false)
}

func (s *StepsContext) aSuperuserWithPassword(username, pw string) error {
	return s.createUser(username, pw, true, false)
}

func (s *StepsContext) aStaffUserWithPassword(username, pw string) error {
	return s.createUser(username, pw, false, true)
}

func (s *StepsContext) userIsInactive(username string) error {
	return s.tc.Users.SetActive(context.Background(), username, false)
}

func (s *StepsContext) theSeparatorIs(separator string) error {
	if !s.tc.InlineMode {
		return godog.ErrPending
	}
	cfg := config.New()
	cfg.Separator = separator
	config.Set(cfg)
	return nil
}

func (s *StepsContext) iLogInAs(login, secret string) error {
	req, err := http.NewRequest("POST", s.tc.ServerURL+"/login", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(login, secret)

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldBeLoggedInAs(username, backend string) error {
	if err := s.theResponseStatusShouldBe(http.StatusOK); err != nil {
		return err
	}

	var id identity.Identity
	if err := json.Unmarshal(s.responseBody, &id); err != nil {
		return fmt.Errorf("failed to parse identity: %w", err)
	}
	if id.Username != username {
		return fmt.Errorf("expected to be logged in as %q, got %q", username, id.Username)
	}
	if id.Backend != backend {
		return fmt.Errorf("expected authenticator %q, got %q", backend, id.Backend)
	}
	return nil
}

func (s *StepsContext) countMessages(msgid, message string) (int64, error) {
	var count int64
	query := s.tc.DB.Table("messages").Where("msgid = ?", msgid)
	if message != "" {
		query = query.Where("message = ?", message)
	}
	err := query.Count(&count).Error
	return count, err
}

func (s *StepsContext) anAuditMessageShouldBeRecorded(message string) error {
	// Audit rows are written synchronously, but allow for a slow database
	deadline := time.Now().Add(2 * time.Second)
	for {
		count, err := s.countMessages("impersonate", message)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("no audit message %q recorded", message)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (s *StepsContext) noAuditMessageShouldBeRecorded(msgid string) error {
	count, err := s.countMessages(msgid, "")
	if err != nil {
		return err
	}
	if count != 0 {
		return fmt.Errorf("expected no %q audit messages, found %d", msgid, count)
	}
	return nil
}
