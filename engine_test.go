package membergate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/batdigest/membergate/account"
	"github.com/batdigest/membergate/dataset"
	"github.com/batdigest/membergate/entitlement"
	"github.com/batdigest/membergate/password"
)

const testAccountPassword = "correct-password-123"

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Session.TTL = time.Hour
	cfg.Password = password.Params{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
	cfg.RateLimit.MaxAttempts = 3
	cfg.RateLimit.Cooldown = time.Minute
	return cfg
}

type testFixture struct {
	engine   *Engine
	mr       *miniredis.Miniredis
	accounts *account.Store
	datasets *dataset.Store
	base     time.Time
}

// newTestFixture builds an engine against miniredis with a clock pinned
// to the wall time at setup. Grant expiries in tests are offsets from
// fx.base.
func newTestFixture(t *testing.T, opts ...func(*Config)) *testFixture {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	base := time.Now()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithClock(func() time.Time { return base }).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testFixture{
		engine:   engine,
		mr:       mr,
		accounts: account.NewStore(rdb, cfg.Store.AccountPrefix),
		datasets: dataset.NewStore(rdb, cfg.Store.DataPrefix),
		base:     base,
	}
}

func (fx *testFixture) seedAccount(t *testing.T, email string, perms entitlement.History) {
	t.Helper()

	verifier, err := password.NewVerifier(testConfig().Password)
	if err != nil {
		t.Fatalf("verifier setup failed: %v", err)
	}
	hash, err := verifier.Hash(testAccountPassword)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	rec := &account.Record{
		ID:           "acct-" + email,
		Email:        email,
		Username:     "member",
		PasswordHash: hash,
		Permissions:  perms,
	}
	if err := fx.accounts.Put(context.Background(), rec); err != nil {
		t.Fatalf("seed account failed: %v", err)
	}
}

func (fx *testFixture) grant(key entitlement.Key, expiresIn time.Duration) entitlement.History {
	return entitlement.History{
		string(key): {{ExpiresAt: fx.base.Add(expiresIn)}},
	}
}

func TestLoginReturnsTokenAndResolvedEntitlements(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()

	perms := fx.grant(entitlement.BBCORData, 30*24*time.Hour)
	perms[string(entitlement.USAData)] = []entitlement.Grant{
		{ExpiresAt: fx.base.Add(-time.Hour)},
	}
	fx.seedAccount(t, "alice@example.com", perms)

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected non-empty session token")
	}
	if result.Identity.Email != "alice@example.com" {
		t.Fatalf("unexpected identity email %q", result.Identity.Email)
	}
	if !result.Entitlements.Contains(entitlement.BBCORData) {
		t.Fatal("expected active bbcor grant in entitlements")
	}
	if result.Entitlements.Contains(entitlement.USAData) {
		t.Fatal("expired usa grant must not appear in entitlements")
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	fx := newTestFixture(t)
	fx.seedAccount(t, "alice@example.com", nil)

	if _, err := fx.engine.Login(context.Background(), "  ALICE@Example.COM ", testAccountPassword); err != nil {
		t.Fatalf("login with unnormalized email failed: %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", nil)

	_, unknownErr := fx.engine.Login(ctx, "nobody@example.com", testAccountPassword)
	_, wrongErr := fx.engine.Login(ctx, "alice@example.com", "wrong-password")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown account: want ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("error text differs: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginVerifiesLegacyPortableHash(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()

	rec := &account.Record{
		ID:           "acct-legacy",
		Email:        "legacy@example.com",
		Username:     "legacy",
		PasswordHash: "$P$9IQRaTwmfeRo7ud9Fh4E2PdI0S3r.L0",
		Permissions:  fx.grant(entitlement.FastpitchData, time.Hour),
	}
	if err := fx.accounts.Put(ctx, rec); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := fx.engine.Login(ctx, "legacy@example.com", "test12345"); err != nil {
		t.Fatalf("portable-hash login failed: %v", err)
	}
	if _, err := fx.engine.Login(ctx, "legacy@example.com", "test1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials for wrong portable password, got %v", err)
	}
}

func TestLoginRateLimitBlocksAfterBudget(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", nil)

	for i := 0; i < 3; i++ {
		if _, err := fx.engine.Login(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: want ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// Budget exhausted: even the correct password is refused.
	if _, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("want ErrLoginRateLimited, got %v", err)
	}

	fx.mr.FastForward(2 * time.Minute)

	if _, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword); err != nil {
		t.Fatalf("login after cooldown failed: %v", err)
	}
}

func TestLoginSuccessResetsAttemptCounter(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", nil)

	for i := 0; i < 2; i++ {
		_, _ = fx.engine.Login(ctx, "alice@example.com", "wrong-password")
	}
	if _, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A fresh budget after success: two more failures stay below the cap.
	for i := 0; i < 2; i++ {
		if _, err := fx.engine.Login(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("post-reset attempt %d: want ErrInvalidCredentials, got %v", i+1, err)
		}
	}
}

func TestValidateSessionReResolvesFromLiveLedger(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", fx.grant(entitlement.BBCORData, time.Hour))

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	auth, err := fx.engine.ValidateSession(ctx, result.Token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !auth.Entitlements.Contains(entitlement.BBCORData) {
		t.Fatal("expected bbcor entitlement before revocation")
	}

	// Revoke mid-session by rewriting the ledger with an expired grant.
	rec, err := fx.accounts.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("account get failed: %v", err)
	}
	rec.Permissions = fx.grant(entitlement.BBCORData, -time.Minute)
	if err := fx.accounts.Put(ctx, rec); err != nil {
		t.Fatalf("account put failed: %v", err)
	}

	auth, err = fx.engine.ValidateSession(ctx, result.Token)
	if err != nil {
		t.Fatalf("validate after revocation failed: %v", err)
	}
	if auth.Entitlements.Contains(entitlement.BBCORData) {
		t.Fatal("revoked entitlement must not survive into later requests")
	}
}

func TestGrantAddedMidSessionTakesEffectImmediately(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", nil)

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	decision, err := fx.engine.CheckPermission(ctx, result.Token, string(entitlement.USSSAData))
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected denial before grant")
	}

	rec, err := fx.accounts.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("account get failed: %v", err)
	}
	rec.Permissions = fx.grant(entitlement.USSSAData, time.Hour)
	if err := fx.accounts.Put(ctx, rec); err != nil {
		t.Fatalf("account put failed: %v", err)
	}

	decision, err = fx.engine.CheckPermission(ctx, result.Token, string(entitlement.USSSAData))
	if err != nil {
		t.Fatalf("check after grant failed: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("new grant must take effect without a new login")
	}
}

func TestCheckPermissionIsIdempotent(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", fx.grant(entitlement.USAData, time.Hour))

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		decision, err := fx.engine.CheckPermission(ctx, result.Token, string(entitlement.USAData))
		if err != nil {
			t.Fatalf("check %d failed: %v", i+1, err)
		}
		if !decision.Allowed {
			t.Fatalf("check %d: expected allowed", i+1)
		}
	}
}

func TestWildcardAllowsArbitraryCategories(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "vip@example.com", fx.grant(entitlement.FullAccess, time.Hour))

	result, err := fx.engine.Login(ctx, "vip@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	for _, requested := range []string{
		string(entitlement.BBCORData),
		string(entitlement.SwingWeightData),
		"premium_video",
	} {
		decision, err := fx.engine.CheckPermission(ctx, result.Token, requested)
		if err != nil {
			t.Fatalf("check %q failed: %v", requested, err)
		}
		if !decision.Allowed {
			t.Fatalf("wildcard holder denied %q", requested)
		}
	}
}

func TestSessionExpiresWithStoreTTL(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", nil)

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	fx.mr.FastForward(time.Hour + time.Second)

	if _, err := fx.engine.ValidateSession(ctx, result.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired after TTL, got %v", err)
	}
}

func TestOrphanedSessionIsRetired(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", fx.grant(entitlement.BBCORData, time.Hour))

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := fx.accounts.Delete(ctx, "alice@example.com"); err != nil {
		t.Fatalf("account delete failed: %v", err)
	}

	if _, err := fx.engine.ValidateSession(ctx, result.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired for orphaned session, got %v", err)
	}
	if got := fx.engine.MetricsSnapshot().Counters[MetricSessionOrphaned]; got != 1 {
		t.Fatalf("want 1 orphaned session counted, got %d", got)
	}

	// The session record itself must be gone, not just rejected.
	if fx.mr.Exists("session:" + result.Token) {
		t.Fatal("orphaned session record should have been deleted")
	}
}

func TestAuthorizeDataServesEntitledCategory(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", fx.grant(entitlement.BBCORData, time.Hour))

	payload := []byte(`{"bats":[{"model":"cat9","swing_weight":870}]}`)
	if err := fx.datasets.Put(ctx, entitlement.BBCORData, payload); err != nil {
		t.Fatalf("dataset put failed: %v", err)
	}

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	got, err := fx.engine.AuthorizeData(ctx, result.Token, "bbcor")
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: got %s", got)
	}
}

func TestAuthorizeDataDeniesWithoutEntitlement(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", fx.grant(entitlement.BBCORData, time.Hour))

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := fx.engine.AuthorizeData(ctx, result.Token, "usssa"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
}

func TestAuthorizeDataUnknownResource(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "vip@example.com", fx.grant(entitlement.FullAccess, time.Hour))

	result, err := fx.engine.Login(ctx, "vip@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Even the wildcard cannot conjure a route that does not exist.
	if _, err := fx.engine.AuthorizeData(ctx, result.Token, "slowpitch"); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("want ErrUnknownResource, got %v", err)
	}

	// Authentication is checked before the route table.
	if _, err := fx.engine.AuthorizeData(ctx, "bogus-token", "slowpitch"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired for bad token, got %v", err)
	}
}

func TestAuthorizeDataMissingPayloadIsJSONNull(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", fx.grant(entitlement.USAData, time.Hour))

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	got, err := fx.engine.AuthorizeData(ctx, result.Token, "usa")
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if string(got) != "null" {
		t.Fatalf("want JSON null for unseeded payload, got %s", got)
	}
}

func TestLogoutDestroysSessionAndIsIdempotent(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", nil)

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := fx.engine.Logout(ctx, result.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := fx.engine.ValidateSession(ctx, result.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired after logout, got %v", err)
	}
	if err := fx.engine.Logout(ctx, result.Token); err != nil {
		t.Fatalf("second logout should succeed, got %v", err)
	}
	if err := fx.engine.Logout(ctx, ""); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("logout without token: want ErrSessionExpired, got %v", err)
	}
}

func TestIntrospectShowsFrozenSnapshotAndCurrentSet(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", fx.grant(entitlement.FastpitchData, time.Hour))

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	rec, err := fx.accounts.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("account get failed: %v", err)
	}
	rec.Permissions = fx.grant(entitlement.FastpitchData, -time.Minute)
	if err := fx.accounts.Put(ctx, rec); err != nil {
		t.Fatalf("account put failed: %v", err)
	}

	info, err := fx.engine.Introspect(ctx, result.Token)
	if err != nil {
		t.Fatalf("introspect failed: %v", err)
	}

	frozen := false
	for _, p := range info.PermissionsAtLogin {
		if p == string(entitlement.FastpitchData) {
			frozen = true
		}
	}
	if !frozen {
		t.Fatal("login-time snapshot should still list the revoked category")
	}
	if info.CurrentEntitlements.Contains(entitlement.FastpitchData) {
		t.Fatal("current entitlements must reflect the revocation")
	}
	if info.ExpiresAt <= info.CreatedAt {
		t.Fatalf("expiry %d not after creation %d", info.ExpiresAt, info.CreatedAt)
	}
}

func TestMetricsCountDecisions(t *testing.T) {
	fx := newTestFixture(t)
	ctx := context.Background()
	fx.seedAccount(t, "alice@example.com", fx.grant(entitlement.BBCORData, time.Hour))

	result, err := fx.engine.Login(ctx, "alice@example.com", testAccountPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	_, _ = fx.engine.Login(ctx, "alice@example.com", "wrong-password")
	_, _ = fx.engine.CheckPermission(ctx, result.Token, string(entitlement.BBCORData))
	_, _ = fx.engine.CheckPermission(ctx, result.Token, string(entitlement.USAData))

	snap := fx.engine.MetricsSnapshot()
	if got := snap.Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("login success counter: want 1, got %d", got)
	}
	if got := snap.Counters[MetricLoginFailure]; got != 1 {
		t.Fatalf("login failure counter: want 1, got %d", got)
	}
	if got := snap.Counters[MetricPermissionAllowed]; got != 1 {
		t.Fatalf("allowed counter: want 1, got %d", got)
	}
	if got := snap.Counters[MetricPermissionDenied]; got != 1 {
		t.Fatalf("denied counter: want 1, got %d", got)
	}
}

func TestAuditEventsReachSink(t *testing.T) {
	sink := NewChannelSink(16)

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	base := time.Now()
	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithAuditSink(sink).
		WithClock(func() time.Time { return base }).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}

	accounts := account.NewStore(rdb, "user")
	verifier, err := password.NewVerifier(testConfig().Password)
	if err != nil {
		t.Fatalf("verifier setup failed: %v", err)
	}
	hash, err := verifier.Hash(testAccountPassword)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := accounts.Put(context.Background(), &account.Record{
		ID: "acct-1", Email: "alice@example.com", Username: "alice", PasswordHash: hash,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	ctx := WithClientIP(context.Background(), "203.0.113.7")
	if _, err := engine.Login(ctx, "alice@example.com", testAccountPassword); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	engine.Close()

	// Close drained the dispatcher, so every emitted event is already
	// buffered in the sink.
	var got *AuditEvent
drain:
	for {
		select {
		case event := <-sink.Events():
			if event.EventType == AuditLoginSuccess {
				e := event
				got = &e
				break drain
			}
		default:
			break drain
		}
	}
	if got == nil {
		t.Fatal("no login_success audit event observed")
	}
	if got.IP != "203.0.113.7" {
		t.Fatalf("audit event IP: want 203.0.113.7, got %q", got.IP)
	}
	if !got.Success {
		t.Fatal("login_success event should be marked successful")
	}
}

func TestBuilderRequiresRedis(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected build failure without redis client")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	b := New().WithConfig(testConfig()).WithRedis(rdb)
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	cfg.Session.TTL = 0

	if _, err := New().WithConfig(cfg).WithRedis(rdb).Build(); err == nil {
		t.Fatal("expected build failure for zero session TTL")
	}
}
