package authz_test

import (
	"testing"
	"time"

	"github.com/fieldpull/fieldpull/internal/domain/authz"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func grant(perms map[string]bool) authz.Grant {
	return authz.Grant{Username: "luke1", Overrides: perms}
}

func TestAuthorize_SuperUserBypassesPolicy(t *testing.T) {
	caller := authz.Caller{Username: "admin", SuperUser: true}
	ok := authz.Authorize(caller, nil, nil, authz.PolicyDestPlusSourceExport, now)
	require.True(t, ok)
}

func TestAuthorize_DestOnly(t *testing.T) {
	caller := authz.Caller{Username: "luke1"}

	dest := []authz.Grant{grant(map[string]bool{authz.PermAdjudicate: true})}
	require.True(t, authz.Authorize(caller, dest, nil, authz.PolicyDestOnly, now))

	dest = []authz.Grant{grant(map[string]bool{authz.PermAdjudicate: false})}
	require.False(t, authz.Authorize(caller, dest, nil, authz.PolicyDestOnly, now))

	require.False(t, authz.Authorize(caller, nil, nil, authz.PolicyDestOnly, now))
}

func TestAuthorize_SourceMembership(t *testing.T) {
	caller := authz.Caller{Username: "luke1"}
	dest := []authz.Grant{grant(map[string]bool{authz.PermAdjudicate: true})}

	// Any active grant in the source project suffices, permissions aside.
	source := []authz.Grant{grant(map[string]bool{authz.PermDataExport: false})}
	require.True(t, authz.Authorize(caller, dest, source, authz.PolicyDestPlusSourceMembership, now))

	require.False(t, authz.Authorize(caller, dest, nil, authz.PolicyDestPlusSourceMembership, now))
}

func TestAuthorize_SourceExport(t *testing.T) {
	caller := authz.Caller{Username: "luke1"}
	dest := []authz.Grant{grant(map[string]bool{authz.PermAdjudicate: true})}

	source := []authz.Grant{grant(map[string]bool{authz.PermDataExport: true})}
	require.True(t, authz.Authorize(caller, dest, source, authz.PolicyDestPlusSourceExport, now))

	// Membership without export rights is not enough under policy 2.
	source = []authz.Grant{grant(map[string]bool{authz.PermDataExport: false})}
	require.False(t, authz.Authorize(caller, dest, source, authz.PolicyDestPlusSourceExport, now))
}

func TestAuthorize_ExpiredGrantsIgnored(t *testing.T) {
	caller := authz.Caller{Username: "luke1"}
	expired := now.Add(-time.Hour)

	dest := []authz.Grant{{
		Username:   "luke1",
		Expiration: &expired,
		Overrides:  map[string]bool{authz.PermAdjudicate: true},
	}}
	require.False(t, authz.Authorize(caller, dest, nil, authz.PolicyDestOnly, now))

	future := now.Add(time.Hour)
	dest[0].Expiration = &future
	require.True(t, authz.Authorize(caller, dest, nil, authz.PolicyDestOnly, now))
}

func TestGrant_OverrideBeatsTemplate(t *testing.T) {
	g := authz.Grant{
		Overrides: map[string]bool{authz.PermAdjudicate: false},
		Template:  map[string]bool{authz.PermAdjudicate: true},
	}
	require.False(t, g.Permitted(authz.PermAdjudicate))

	g.Overrides = map[string]bool{}
	require.True(t, g.Permitted(authz.PermAdjudicate))
}

func TestGrant_NoValueDenies(t *testing.T) {
	var g authz.Grant
	require.False(t, g.Permitted(authz.PermAdjudicate))
}

func TestParsePolicy(t *testing.T) {
	for code, want := range map[int]authz.Policy{
		0: authz.PolicyDestOnly,
		1: authz.PolicyDestPlusSourceMembership,
		2: authz.PolicyDestPlusSourceExport,
	} {
		got, err := authz.ParsePolicy(code)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := authz.ParsePolicy(9)
	require.Error(t, err)
}
