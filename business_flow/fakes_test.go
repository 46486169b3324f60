package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/efine-sl/efine-api/app/services"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

func window[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return []*T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type fakeAdminRepo struct {
	mu      sync.Mutex
	admins  []*models.Admin
	nextID  uint
	saveErr error
}

func (r *fakeAdminRepo) add(a *models.Admin) *models.Admin {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	cp := *a
	r.admins = append(r.admins, &cp)
	return a
}

func (r *fakeAdminRepo) find(pred func(*models.Admin) bool) *models.Admin {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if pred(a) {
			cp := *a
			return &cp
		}
	}
	return nil
}

func (r *fakeAdminRepo) ByID(ctx context.Context, id uint) (*models.Admin, error) {
	return r.find(func(a *models.Admin) bool { return a.ID == id }), nil
}

func (r *fakeAdminRepo) ByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.find(func(a *models.Admin) bool { return a.Email == email }), nil
}

func (r *fakeAdminRepo) ByUUID(ctx context.Context, id string) (*models.Admin, error) {
	return r.find(func(a *models.Admin) bool { return a.UUID.String() == id }), nil
}

func (r *fakeAdminRepo) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Admin
	for _, a := range r.admins {
		if filter.Email != nil && a.Email != *filter.Email {
			continue
		}
		if filter.Role != nil && a.Role != *filter.Role {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return window(out, limit, offset), nil
}

func (r *fakeAdminRepo) Save(ctx context.Context, a *models.Admin) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.add(a)
	return nil
}

func (r *fakeAdminRepo) SaveBatch(ctx context.Context, admins []*models.Admin) error {
	for _, a := range admins {
		r.add(a)
	}
	return nil
}

func (r *fakeAdminRepo) Update(ctx context.Context, a *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.admins {
		if existing.ID == a.ID {
			cp := *a
			r.admins[i] = &cp
			return nil
		}
	}
	return errors.New("admin not found")
}

func (r *fakeAdminRepo) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	all, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(all)), nil
}

func (r *fakeAdminRepo) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.ID == adminID {
			a.LastLoginAt = &at
		}
	}
	return nil
}

type fakeDriverRepo struct {
	mu      sync.Mutex
	drivers []*models.Driver
}

func (r *fakeDriverRepo) add(d *models.Driver) *models.Driver {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uint(len(r.drivers) + 1)
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	if d.LicenseStatus == "" {
		d.LicenseStatus = models.LicenseStatusActive
	}
	cp := *d
	r.drivers = append(r.drivers, &cp)
	return d
}

func (r *fakeDriverRepo) find(pred func(*models.Driver) bool) *models.Driver {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drivers {
		if pred(d) {
			cp := *d
			return &cp
		}
	}
	return nil
}

func (r *fakeDriverRepo) ByID(ctx context.Context, id uint) (*models.Driver, error) {
	return r.find(func(d *models.Driver) bool { return d.ID == id }), nil
}

func (r *fakeDriverRepo) ByUUID(ctx context.Context, id string) (*models.Driver, error) {
	return r.find(func(d *models.Driver) bool { return d.UUID.String() == id }), nil
}

func (r *fakeDriverRepo) ByLicenseNumber(ctx context.Context, license string) (*models.Driver, error) {
	return r.find(func(d *models.Driver) bool { return d.LicenseNumber == license }), nil
}

func (r *fakeDriverRepo) ByFilter(ctx context.Context, filter models.DriverFilter, orderBy string, limit, offset int) ([]*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Driver
	for _, d := range r.drivers {
		if filter.LicenseStatus != nil && d.LicenseStatus != *filter.LicenseStatus {
			continue
		}
		if filter.LicenseNumber != nil && d.LicenseNumber != *filter.LicenseNumber {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return window(out, limit, offset), nil
}

func (r *fakeDriverRepo) Save(ctx context.Context, d *models.Driver) error {
	r.add(d)
	return nil
}

func (r *fakeDriverRepo) SaveBatch(ctx context.Context, drivers []*models.Driver) error {
	for _, d := range drivers {
		r.add(d)
	}
	return nil
}

func (r *fakeDriverRepo) Update(ctx context.Context, d *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.drivers {
		if existing.ID == d.ID {
			cp := *d
			r.drivers[i] = &cp
			return nil
		}
	}
	return errors.New("driver not found")
}

func (r *fakeDriverRepo) Count(ctx context.Context, filter models.DriverFilter) (int64, error) {
	all, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(all)), nil
}

func (r *fakeDriverRepo) Exists(ctx context.Context, filter models.DriverFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

type fakeOfficerRepo struct {
	mu       sync.Mutex
	officers []*models.PoliceOfficer
	saveErr  error
}

func (r *fakeOfficerRepo) add(o *models.PoliceOfficer) *models.PoliceOfficer {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = uint(len(r.officers) + 1)
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	cp := *o
	r.officers = append(r.officers, &cp)
	return o
}

func (r *fakeOfficerRepo) find(pred func(*models.PoliceOfficer) bool) *models.PoliceOfficer {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.officers {
		if pred(o) {
			cp := *o
			return &cp
		}
	}
	return nil
}

func (r *fakeOfficerRepo) ByID(ctx context.Context, id uint) (*models.PoliceOfficer, error) {
	return r.find(func(o *models.PoliceOfficer) bool { return o.ID == id }), nil
}

func (r *fakeOfficerRepo) ByUUID(ctx context.Context, id string) (*models.PoliceOfficer, error) {
	return r.find(func(o *models.PoliceOfficer) bool { return o.UUID.String() == id }), nil
}

func (r *fakeOfficerRepo) ByBadgeNumber(ctx context.Context, badge string) (*models.PoliceOfficer, error) {
	return r.find(func(o *models.PoliceOfficer) bool { return o.BadgeNumber == badge }), nil
}

func (r *fakeOfficerRepo) ByEmail(ctx context.Context, email string) (*models.PoliceOfficer, error) {
	return r.find(func(o *models.PoliceOfficer) bool { return o.Email == email }), nil
}

func (r *fakeOfficerRepo) ByFilter(ctx context.Context, filter models.PoliceOfficerFilter, orderBy string, limit, offset int) ([]*models.PoliceOfficer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PoliceOfficer
	for _, o := range r.officers {
		if filter.BadgeNumber != nil && o.BadgeNumber != *filter.BadgeNumber {
			continue
		}
		if filter.Email != nil && o.Email != *filter.Email {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return window(out, limit, offset), nil
}

func (r *fakeOfficerRepo) Save(ctx context.Context, o *models.PoliceOfficer) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.add(o)
	return nil
}

func (r *fakeOfficerRepo) SaveBatch(ctx context.Context, officers []*models.PoliceOfficer) error {
	for _, o := range officers {
		r.add(o)
	}
	return nil
}

func (r *fakeOfficerRepo) Update(ctx context.Context, o *models.PoliceOfficer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.officers {
		if existing.ID == o.ID {
			cp := *o
			r.officers[i] = &cp
			return nil
		}
	}
	return errors.New("officer not found")
}

func (r *fakeOfficerRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.officers = slices.DeleteFunc(r.officers, func(o *models.PoliceOfficer) bool { return o.ID == id })
	return nil
}

func (r *fakeOfficerRepo) Count(ctx context.Context, filter models.PoliceOfficerFilter) (int64, error) {
	all, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(all)), nil
}

func (r *fakeOfficerRepo) Exists(ctx context.Context, filter models.PoliceOfficerFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

type fakeOffenseRepo struct {
	mu       sync.Mutex
	offenses []*models.Offense
}

func (r *fakeOffenseRepo) add(o *models.Offense) *models.Offense {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = uint(len(r.offenses) + 1)
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	cp := *o
	r.offenses = append(r.offenses, &cp)
	return o
}

func (r *fakeOffenseRepo) ByID(ctx context.Context, id uint) (*models.Offense, error) {
	return r.find(func(o *models.Offense) bool { return o.ID == id }), nil
}

func (r *fakeOffenseRepo) ByUUID(ctx context.Context, id string) (*models.Offense, error) {
	return r.find(func(o *models.Offense) bool { return o.UUID.String() == id }), nil
}

func (r *fakeOffenseRepo) find(pred func(*models.Offense) bool) *models.Offense {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.offenses {
		if pred(o) {
			cp := *o
			return &cp
		}
	}
	return nil
}

func (r *fakeOffenseRepo) ByFilter(ctx context.Context, filter models.OffenseFilter, orderBy string, limit, offset int) ([]*models.Offense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Offense, 0, len(r.offenses))
	for _, o := range r.offenses {
		cp := *o
		out = append(out, &cp)
	}
	return window(out, limit, offset), nil
}

func (r *fakeOffenseRepo) Save(ctx context.Context, o *models.Offense) error {
	r.add(o)
	return nil
}

func (r *fakeOffenseRepo) SaveBatch(ctx context.Context, offenses []*models.Offense) error {
	for _, o := range offenses {
		r.add(o)
	}
	return nil
}

func (r *fakeOffenseRepo) Update(ctx context.Context, o *models.Offense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.offenses {
		if existing.ID == o.ID {
			cp := *o
			r.offenses[i] = &cp
			return nil
		}
	}
	return errors.New("offense not found")
}

func (r *fakeOffenseRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offenses = slices.DeleteFunc(r.offenses, func(o *models.Offense) bool { return o.ID == id })
	return nil
}

func (r *fakeOffenseRepo) Count(ctx context.Context, filter models.OffenseFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.offenses)), nil
}

func (r *fakeOffenseRepo) Exists(ctx context.Context, filter models.OffenseFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

type fakeFineRepo struct {
	mu    sync.Mutex
	fines []*models.IssuedFine
}

func (r *fakeFineRepo) add(f *models.IssuedFine) *models.IssuedFine {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = uint(len(r.fines) + 1)
	if f.UUID == uuid.Nil {
		f.UUID = uuid.New()
	}
	if f.Status == "" {
		f.Status = models.FineStatusUnpaid
	}
	cp := *f
	r.fines = append(r.fines, &cp)
	return f
}

func inRange(t *time.Time, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if t == nil {
		return false
	}
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func (r *fakeFineRepo) matching(filter models.IssuedFineFilter) []*models.IssuedFine {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.IssuedFine
	for _, f := range r.fines {
		if filter.UUID != nil && f.UUID != *filter.UUID {
			continue
		}
		if filter.LicenseNumber != nil && f.LicenseNumber != *filter.LicenseNumber {
			continue
		}
		if filter.PoliceOfficerID != nil && f.PoliceOfficerID != *filter.PoliceOfficerID {
			continue
		}
		if filter.OffenseID != nil && f.OffenseID != *filter.OffenseID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, f.Status) {
			continue
		}
		date := f.Date
		if !inRange(&date, filter.DateFrom, filter.DateTo) || !inRange(f.PaidAt, filter.PaidFrom, filter.PaidTo) {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	return out
}

func (r *fakeFineRepo) ByID(ctx context.Context, id uint) (*models.IssuedFine, error) {
	for _, f := range r.matching(models.IssuedFineFilter{}) {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeFineRepo) ByUUID(ctx context.Context, id string) (*models.IssuedFine, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	found := r.matching(models.IssuedFineFilter{UUID: &parsed})
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *fakeFineRepo) ByFilter(ctx context.Context, filter models.IssuedFineFilter, orderBy string, limit, offset int) ([]*models.IssuedFine, error) {
	return window(r.matching(filter), limit, offset), nil
}

func (r *fakeFineRepo) Save(ctx context.Context, f *models.IssuedFine) error {
	r.add(f)
	return nil
}

func (r *fakeFineRepo) SaveBatch(ctx context.Context, fines []*models.IssuedFine) error {
	for _, f := range fines {
		r.add(f)
	}
	return nil
}

func (r *fakeFineRepo) Update(ctx context.Context, f *models.IssuedFine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.fines {
		if existing.ID == f.ID {
			cp := *f
			r.fines[i] = &cp
			return nil
		}
	}
	return errors.New("fine not found")
}

func (r *fakeFineRepo) Count(ctx context.Context, filter models.IssuedFineFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *fakeFineRepo) Exists(ctx context.Context, filter models.IssuedFineFilter) (bool, error) {
	return len(r.matching(filter)) > 0, nil
}

func (r *fakeFineRepo) SumAmount(ctx context.Context, filter models.IssuedFineFilter) (float64, error) {
	var sum float64
	for _, f := range r.matching(filter) {
		sum += f.Amount
	}
	return sum, nil
}

func (r *fakeFineRepo) OffenseBreakdown(ctx context.Context, filter models.IssuedFineFilter) ([]repository.OffenseAggregate, error) {
	index := map[string]int{}
	var out []repository.OffenseAggregate
	for _, f := range r.matching(filter) {
		i, ok := index[f.OffenseName]
		if !ok {
			i = len(out)
			index[f.OffenseName] = i
			out = append(out, repository.OffenseAggregate{OffenseName: f.OffenseName})
		}
		out[i].Count++
		out[i].Amount += f.Amount
	}
	return out, nil
}

type fakeStationRepo struct {
	stations []*models.PoliceStation
}

func (r *fakeStationRepo) ByCode(ctx context.Context, code string) (*models.PoliceStation, error) {
	for _, s := range r.stations {
		if s.StationCode == code {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStationRepo) List(ctx context.Context) ([]*models.PoliceStation, error) {
	return r.stations, nil
}

func (r *fakeStationRepo) Save(ctx context.Context, s *models.PoliceStation) error {
	r.stations = append(r.stations, s)
	return nil
}

type fakeVerificationRepo struct {
	records []*models.Verification
}

func (r *fakeVerificationRepo) Save(ctx context.Context, v *models.Verification) error {
	r.records = append(r.records, v)
	return nil
}

func (r *fakeVerificationRepo) LatestByBadge(ctx context.Context, badge string) (*models.Verification, error) {
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].BadgeNumber == badge {
			return r.records[i], nil
		}
	}
	return nil, nil
}

func (r *fakeVerificationRepo) DeleteByBadge(ctx context.Context, badge string) error {
	r.records = slices.DeleteFunc(r.records, func(v *models.Verification) bool { return v.BadgeNumber == badge })
	return nil
}

// fakeTOTP accepts exactly one code per secret
type fakeTOTP struct {
	codes map[string]string
	seq   int
}

func newFakeTOTP() *fakeTOTP {
	return &fakeTOTP{codes: map[string]string{}}
}

func (t *fakeTOTP) GenerateSecret(account string) (*services.TOTPSecret, error) {
	t.seq++
	secret := "SECRET" + string(rune('A'+t.seq))
	t.codes[secret] = "123456"
	return &services.TOTPSecret{
		Secret:        secret,
		OTPAuthURL:    "otpauth://totp/e-Fine%20SL:" + account + "?secret=" + secret,
		QRCodeDataURL: "data:image/png;base64,AAAA",
	}, nil
}

func (t *fakeTOTP) Verify(secret, code string) bool {
	want, ok := t.codes[secret]
	return ok && want == code
}

type fakePendingStore struct {
	records map[string]services.PendingEnrollment
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{records: map[string]services.PendingEnrollment{}}
}

func (s *fakePendingStore) Put(ctx context.Context, email string, p services.PendingEnrollment) error {
	s.records[email] = p
	return nil
}

func (s *fakePendingStore) Take(ctx context.Context, email string) (*services.PendingEnrollment, error) {
	p, ok := s.records[email]
	if !ok {
		return nil, nil
	}
	delete(s.records, email)
	return &p, nil
}

type fakeNotifier struct {
	err        error
	suspended  []string
	activated  []string
	codes      []string
	recipients []string
}

func (n *fakeNotifier) SendLicenseSuspended(ctx context.Context, to, driverName, reason string) error {
	n.suspended = append(n.suspended, to)
	return n.err
}

func (n *fakeNotifier) SendLicenseActivated(ctx context.Context, to, driverName string) error {
	n.activated = append(n.activated, to)
	return n.err
}

func (n *fakeNotifier) SendOfficerVerificationCode(ctx context.Context, to, stationName, badgeNumber, code string) error {
	n.recipients = append(n.recipients, to)
	n.codes = append(n.codes, code)
	return n.err
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) InvalidateStats(ctx context.Context) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingInvalidator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeCaptcha struct {
	valid map[string]bool
}

func (c *fakeCaptcha) GenerateRotate(ctx context.Context) (*services.RotateChallenge, error) {
	return &services.RotateChallenge{ID: "challenge-1", MasterImageBase64: "m", ThumbImageBase64: "t"}, nil
}

func (c *fakeCaptcha) VerifyRotate(ctx context.Context, id string, angle float64) bool {
	ok := c.valid[id]
	delete(c.valid, id)
	return ok
}

// memoryJSONCache stores encoded values like the redis cache does
type memoryJSONCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func (c *memoryJSONCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryJSONCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string][]byte{}
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryJSONCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deletes++
	return nil
}
