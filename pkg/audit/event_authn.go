package audit

import "fmt"

// AuthenticateEvent records the outcome of a login through the authenticator chain
type AuthenticateEvent struct {
	Username          string
	ClientIP          string
	AuthenticatorName string
	Success           bool
	ErrorMessage      string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with authenticator %s", e.Username, e.AuthenticatorName)
	}
	if e.AuthenticatorName == "" {
		return appendError(fmt.Sprintf("%s failed to authenticate", e.Username), e.ErrorMessage)
	}
	return appendError(
		fmt.Sprintf("%s failed to authenticate with authenticator %s", e.Username, e.AuthenticatorName),
		e.ErrorMessage,
	)
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDAction: {
			"operation": "authenticate",
			"result":    result(e.Success),
		},
	}
	if e.AuthenticatorName != "" {
		sd[SDIDAuth]["authenticator"] = e.AuthenticatorName
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func appendError(msg, errMsg string) string {
	if errMsg == "" {
		return msg
	}
	return msg + ": " + errMsg
}
