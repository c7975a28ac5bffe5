package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/siswanet/siswanet/internal/account/entity"
	"github.com/siswanet/siswanet/internal/pkg/config"
	"github.com/siswanet/siswanet/internal/pkg/goerror"
	"github.com/siswanet/siswanet/internal/pkg/hash"
	"github.com/siswanet/siswanet/internal/pkg/idempotency"
	"github.com/siswanet/siswanet/internal/pkg/instrument"
	"github.com/siswanet/siswanet/internal/pkg/sms"
	"github.com/siswanet/siswanet/internal/pkg/validator"
)

const (
	testPhone = "+628111111111"
	testTime  = "2026-02-10T09:00:00Z"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeUID struct {
	next int64
}

func (u *fakeUID) Generate() int64 {
	u.next++
	return u.next
}

type fakeCodes struct {
	code string
	err  error
}

func (c *fakeCodes) Generate() (string, error) { return c.code, c.err }

type fakeSMS struct {
	sent []sms.Message
	err  error
}

func (s *fakeSMS) Close() error { return nil }

func (s *fakeSMS) Send(_ context.Context, msg sms.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type fakeMessaging struct {
	issued    []OTPIssuedEvent
	verified  []OTPVerifiedEvent
	exhausted []OTPExhaustedEvent
}

func (m *fakeMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	m.issued = append(m.issued, msg)
	return nil
}

func (m *fakeMessaging) PublishOTPVerified(_ context.Context, msg OTPVerifiedEvent) error {
	m.verified = append(m.verified, msg)
	return nil
}

func (m *fakeMessaging) PublishOTPExhausted(_ context.Context, msg OTPExhaustedEvent) error {
	m.exhausted = append(m.exhausted, msg)
	return nil
}

// fakeRepo is an in-memory repoDB honoring the same conditional-update
// semantics as the SQL implementation.
type fakeRepo struct {
	accounts  map[string]*entity.Account
	otps      map[int64]*entity.OTPRecord
	passwords map[int64]string

	failCreate error
	failDelete error

	// When set, GetPendingOTP returns this snapshot instead of the stored
	// record, simulating a read that raced other submissions.
	pendingSnapshot *entity.OTPRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		accounts:  map[string]*entity.Account{},
		otps:      map[int64]*entity.OTPRecord{},
		passwords: map[int64]string{},
	}
}

func (r *fakeRepo) GetAccountByPhone(_ context.Context, phone string) (*entity.Account, error) {
	acc, ok := r.accounts[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (r *fakeRepo) GetLatestOTP(_ context.Context, accountID int64, purpose entity.OTPPurpose) (*entity.OTPRecord, error) {
	var latest *entity.OTPRecord
	for _, rec := range r.otps {
		if rec.AccountID != accountID || rec.Purpose != purpose {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, goerror.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepo) GetPendingOTP(_ context.Context, accountID int64, purpose entity.OTPPurpose, now time.Time) (*entity.OTPRecord, error) {
	if r.pendingSnapshot != nil {
		cp := *r.pendingSnapshot
		return &cp, nil
	}
	var latest *entity.OTPRecord
	for _, rec := range r.otps {
		if rec.AccountID != accountID || rec.Purpose != purpose {
			continue
		}
		if rec.Status != entity.OTPStatusPending || rec.ExpiresAt.Before(now) {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, goerror.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepo) GetRecentVerifiedOTP(_ context.Context, accountID int64, purpose entity.OTPPurpose, verifiedAfter, now time.Time) (*entity.OTPRecord, error) {
	var latest *entity.OTPRecord
	for _, rec := range r.otps {
		if rec.AccountID != accountID || rec.Purpose != purpose {
			continue
		}
		if rec.Status != entity.OTPStatusVerified || rec.VerifiedAt == nil {
			continue
		}
		if rec.VerifiedAt.Before(verifiedAfter) || rec.ExpiresAt.Before(now) {
			continue
		}
		if latest == nil || rec.VerifiedAt.After(*latest.VerifiedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, goerror.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepo) CreateOTP(_ context.Context, rec entity.OTPRecord) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	cp := rec
	r.otps[rec.ID] = &cp
	return nil
}

func (r *fakeRepo) SupersedePendingOTPs(_ context.Context, accountID int64, purpose entity.OTPPurpose) error {
	for _, rec := range r.otps {
		if rec.AccountID == accountID && rec.Purpose == purpose && rec.Status == entity.OTPStatusPending {
			rec.Status = entity.OTPStatusSuperseded
		}
	}
	return nil
}

func (r *fakeRepo) DeleteOTP(_ context.Context, id int64) error {
	if r.failDelete != nil {
		return r.failDelete
	}
	delete(r.otps, id)
	return nil
}

func (r *fakeRepo) IncrementOTPAttempts(_ context.Context, id int64, maxAttempts int32) (int32, error) {
	rec, ok := r.otps[id]
	if !ok || rec.Status != entity.OTPStatusPending || rec.Attempts >= maxAttempts {
		return 0, goerror.ErrNotFound
	}
	rec.Attempts++
	return rec.Attempts, nil
}

func (r *fakeRepo) MarkOTPVerified(_ context.Context, id int64, at time.Time) (bool, error) {
	rec, ok := r.otps[id]
	if !ok || rec.Status != entity.OTPStatusPending {
		return false, nil
	}
	rec.Status = entity.OTPStatusVerified
	ts := at
	rec.VerifiedAt = &ts
	return true, nil
}

func (r *fakeRepo) MarkOTPExhausted(_ context.Context, id int64) error {
	rec, ok := r.otps[id]
	if !ok || rec.Status != entity.OTPStatusPending {
		return nil
	}
	rec.Status = entity.OTPStatusExhausted
	return nil
}

func (r *fakeRepo) DeleteExpiredOTPs(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, rec := range r.otps {
		if rec.ExpiresAt.Before(now) {
			delete(r.otps, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) UpdateAccountPassword(_ context.Context, accountID int64, hashed string) error {
	r.passwords[accountID] = hashed
	return nil
}

// fakeIdemp runs everything inline, remembering keys that completed.
type fakeIdemp struct {
	done map[string]bool
}

func (f *fakeIdemp) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (f *fakeIdemp) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) MarkFailed(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if f.done == nil {
		f.done = map[string]bool{}
	}
	if f.done[key] {
		return idempotency.ErrAlreadyCompleted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	f.done[key] = true
	return nil
}

type fixture struct {
	uc    *Usecase
	repo  *fakeRepo
	mq    *fakeMessaging
	sms   *fakeSMS
	codes *fakeCodes
	clock *fakeClock
	idemp *fakeIdemp
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  account:
    otp_ttl_minutes: 10
    otp_resend_cooldown_seconds: 60
    otp_max_attempts: 3
    otp_reset_window_minutes: 5
    debug_log_codes: false
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	vld, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	start, _ := time.Parse(time.RFC3339, testTime)
	f := &fixture{
		repo:  newFakeRepo(),
		mq:    &fakeMessaging{},
		sms:   &fakeSMS{},
		codes: &fakeCodes{code: "421337"},
		clock: &fakeClock{now: start},
		idemp: &fakeIdemp{},
	}
	f.repo.accounts[testPhone] = &entity.Account{
		ID:     77,
		Phone:  testPhone,
		Role:   entity.AccountRoleStudent,
		Status: entity.AccountStatusActive,
	}

	f.uc = New(Dependency{
		RepoDB:        f.repo,
		RepoMessaging: f.mq,
		Idempotency:   f.idemp,
		Validator:     vld,
		Config:        cfg,
		CodeHash:      hash.NewSHA256(),
		Bcrypt:        hash.NewBcrypt(4, ""),
		Codes:         f.codes,
		SMS:           f.sms,
		UID:           &fakeUID{},
		Clock:         f.clock,
		Instrument:    instrument.NewNoop(),
	})

	return f
}

func businessMsg(t *testing.T, err error) string {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %v is not a goerror.Error", err)
	}
	return gerr.Msg()
}
