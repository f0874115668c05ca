package secret

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
)

// globalSeed is the fixed seed for the process-wide global secret used by
// system-to-system (cron) calls that carry no user identity.
const globalSeed = `rkQ84v_ZJc&mD$wq7!ePXf=uB2ynTh+RA?g0LsKV|jW6bCtNx9aEoF3iUdSzM5HY`

// Session identifiers are the word characters of the decrypted secret,
// truncated to 32.
var nonWord = regexp.MustCompile(`\W`)

const sessionIDLength = 32

// SessionStore reports whether a session is currently live.
type SessionStore interface {
	IsLive(ctx context.Context, sessionID string) (bool, error)
}

// AuditLog reports whether an activity log entry ties a session to a user.
type AuditLog interface {
	SessionUsedBy(ctx context.Context, sessionID, username string) (bool, error)
}

// Protocol issues and validates request secrets.
type Protocol struct {
	cipher   *Cipher
	global   string
	sessions SessionStore
	audit    AuditLog
	logger   *slog.Logger
}

// NewProtocol creates a Protocol. The global secret is derived once and is
// stable for the process lifetime.
func NewProtocol(cipher *Cipher, sessions SessionStore, audit AuditLog, logger *slog.Logger) (*Protocol, error) {
	if cipher == nil {
		return nil, errors.New("cipher is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	global, err := cipher.Encrypt(globalSeed)
	if err != nil {
		return nil, fmt.Errorf("deriving global secret: %w", err)
	}
	return &Protocol{
		cipher:   cipher,
		global:   global,
		sessions: sessions,
		audit:    audit,
		logger:   logger,
	}, nil
}

// Issue produces an opaque secret from a live session token. Secrets are
// never stored; they are re-derived per request.
func (p *Protocol) Issue(sessionToken string) (string, error) {
	return p.cipher.Encrypt(sessionToken)
}

// GlobalSecret returns the process-wide secret for system/cron calls.
func (p *Protocol) GlobalSecret() string {
	return p.global
}

// Validate checks a request secret against the caller identity.
//
// An empty username marks a system/cron call: the secret must equal the
// global secret. Otherwise the secret must either equal the destination
// project's configured test secret (a deliberate testing bypass that skips
// session validation entirely), or decrypt to a session identifier that is
// currently live and that the activity log ties to this exact username.
//
// Every ordinary failure, including undecryptable input, is a deny rather
// than an error. The returned error is reserved for store failures.
func (p *Protocol) Validate(ctx context.Context, requestSecret, username, testSecret string) (bool, error) {
	if username == "" {
		ok := subtle.ConstantTimeCompare([]byte(requestSecret), []byte(p.global)) == 1
		if !ok {
			p.logger.Debug("global secret mismatch")
		}
		return ok, nil
	}

	if requestSecret != "" && testSecret != "" && requestSecret == testSecret {
		return true, nil
	}

	plain, err := p.cipher.Decrypt(requestSecret)
	if err != nil {
		p.logger.Debug("secret decryption failed", "user", username)
		return false, nil
	}

	sessionID := nonWord.ReplaceAllString(plain, "")
	if len(sessionID) > sessionIDLength {
		sessionID = sessionID[:sessionIDLength]
	}

	live, err := p.sessions.IsLive(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}
	if !live {
		p.logger.Debug("secret names a dead session", "user", username)
		return false, nil
	}

	used, err := p.audit.SessionUsedBy(ctx, sessionID, username)
	if err != nil {
		return false, fmt.Errorf("checking session activity: %w", err)
	}
	if !used {
		p.logger.Debug("session not used by caller", "user", username)
	}
	return used, nil
}
