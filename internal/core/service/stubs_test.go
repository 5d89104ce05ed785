package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID       map[string]*domain.User
	byExternal map[string]*domain.User
	seq        int
	createErr  error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:       make(map[string]*domain.User),
		byExternal: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	if u.ID == "" {
		r.seq++
		u.ID = fmt.Sprintf("user_%d", r.seq)
	}
	r.byID[u.ID] = u
	if u.ExternalID != "" {
		r.byExternal[u.ExternalID] = u
	}
	return u
}

func (r *stubUserRepo) FindByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	u, ok := r.byExternal[externalID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *user
	return r.seed(&clone), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	// Apply the fields the tests care about; the rest pass through Mongo in
	// production.
	if v, ok := fields["first_name"].(string); ok {
		u.FirstName = v
	}
	if v, ok := fields["income"].(float64); ok {
		u.Income = v
	}
	if v, ok := fields["profile_completed"].(bool); ok {
		u.ProfileCompleted = v
	}
	clone := *u
	return &clone, nil
}

type stubAccountRepo struct {
	byID    map[string]*domain.Account
	seq     int
	mirrors map[string]map[string]any // account number → last mirror fields
	listErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{
		byID:    make(map[string]*domain.Account),
		mirrors: make(map[string]map[string]any),
	}
}

func (r *stubAccountRepo) seed(a *domain.Account) *domain.Account {
	if a.ID == "" {
		r.seq++
		a.ID = fmt.Sprintf("acct_%d", r.seq)
	}
	if a.Status == "" {
		a.Status = domain.AccountActive
	}
	r.byID[a.ID] = a
	return a
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	clone := *account
	r.seed(&clone)
	out := clone
	return &out, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) FindByNumber(_ context.Context, number string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.AccountNumber == number {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) ListByUser(_ context.Context, userID string) ([]*domain.Account, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Account
	for _, a := range r.byID {
		if a.UserID == userID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubAccountRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	accounts, _ := r.ListByUser(ctx, userID)
	return int64(len(accounts)), nil
}

func (r *stubAccountRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	for _, a := range r.byID {
		if a.AccountNumber == number {
			return true, nil
		}
	}
	return false, nil
}

/// ApplyDelta mirrors the conditional Mongo update: the balance guard and the
// adjustment happen as one step.
func (r *stubAccountRepo) ApplyDelta(_ context.Context, id string, delta, floor float64) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if a.Status != domain.AccountActive {
		return nil, domain.ErrAccountNotFound
	}
	if delta < 0 && a.Balance+delta < floor {
		return nil, domain.ErrInsufficientFunds
	}
	a.Balance += delta
	a.UpdatedAt = time.Now().UTC()
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if v, ok := fields["name"].(string); ok {
		a.Name = v
	}
	if v, ok := fields["status"].(domain.AccountStatus); ok {
		a.Status = v
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Status = status
	return nil
}

func (r *stubAccountRepo) UpdateMirror(_ context.Context, number string, fields map[string]any) error {
	r.mirrors[number] = fields
	for _, a := range r.byID {
		if a.AccountNumber == number {
			if v, ok := fields["balance"].(float64); ok {
				a.Balance = v
			}
		}
	}
	return nil
}

type stubTransactionRepo struct {
	inserted  []*domain.Transaction
	seq       int
	insertErr error
}

func newStubTransactionRepo() *stubTransactionRepo { return &stubTransactionRepo{} }

func (r *stubTransactionRepo) Insert(_ context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.seq++
	clone := *txn
	clone.ID = fmt.Sprintf("txn_%d", r.seq)
	r.inserted = append(r.inserted, &clone)
	out := clone
	return &out, nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	for _, t := range r.inserted {
		if t.ID == id {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *stubTransactionRepo) List(_ context.Context, filter ports.ListTransactionsFilter) ([]*domain.Transaction, int64, error) {
	var out []*domain.Transaction
	for _, t := range r.inserted {
		if t.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) ListRecent(_ context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for i := len(r.inserted) - 1; i >= 0 && len(out) < limit; i-- {
		if r.inserted[i].UserID == userID {
			clone := *r.inserted[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubSavingsRepo struct {
	byID map[string]*domain.SavingsAccount
	seq  int
}

func newStubSavingsRepo() *stubSavingsRepo {
	return &stubSavingsRepo{byID: make(map[string]*domain.SavingsAccount)}
}

func (r *stubSavingsRepo) seed(a *domain.SavingsAccount) *domain.SavingsAccount {
	if a.ID == "" {
		r.seq++
		a.ID = fmt.Sprintf("sav_%d", r.seq)
	}
	r.byID[a.ID] = a
	return a
}

func (r *stubSavingsRepo) Create(_ context.Context, account *domain.SavingsAccount) (*domain.SavingsAccount, error) {
	clone := *account
	r.seed(&clone)
	out := clone
	return &out, nil
}

func (r *stubSavingsRepo) FindByID(_ context.Context, id string) (*domain.SavingsAccount, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSavingsAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubSavingsRepo) ListByUser(_ context.Context, userID string) ([]*domain.SavingsAccount, error) {
	var out []*domain.SavingsAccount
	for _, a := range r.byID {
		if a.UserID == userID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubSavingsRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	for _, a := range r.byID {
		if a.AccountNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSavingsRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.SavingsAccount, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSavingsAccountNotFound
	}
	if v, ok := fields["name"]; ok {
		a.Name = v.(string)
	}
	if v, ok := fields["apy"]; ok {
		a.APY = v.(float64)
	}
	if v, ok := fields["interest_rate"]; ok {
		a.InterestRate = v.(float64)
	}
	if v, ok := fields["minimum_balance"]; ok {
		a.MinimumBalance = v.(float64)
	}
	clone := *a
	return &clone, nil
}

func (r *stubSavingsRepo) ApplyDelta(_ context.Context, id string, delta, floor float64) (*domain.SavingsAccount, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSavingsAccountNotFound
	}
	if delta < 0 && a.Balance+delta < floor {
		return nil, domain.ErrInsufficientFunds
	}
	a.Balance += delta
	clone := *a
	return &clone, nil
}

func (r *stubSavingsRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type stubGoalRepo struct {
	byID map[string]*domain.SavingsGoal
	seq  int
}

func newStubGoalRepo() *stubGoalRepo {
	return &stubGoalRepo{byID: make(map[string]*domain.SavingsGoal)}
}

func (r *stubGoalRepo) seed(g *domain.SavingsGoal) *domain.SavingsGoal {
	if g.ID == "" {
		r.seq++
		g.ID = fmt.Sprintf("goal_%d", r.seq)
	}
	r.byID[g.ID] = g
	return g
}

func (r *stubGoalRepo) Create(_ context.Context, goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	clone := *goal
	r.seed(&clone)
	out := clone
	return &out, nil
}

func (r *stubGoalRepo) FindByID(_ context.Context, id string) (*domain.SavingsGoal, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	clone := *g
	return &clone, nil
}

func (r *stubGoalRepo) ListByUser(_ context.Context, userID string) ([]*domain.SavingsGoal, error) {
	var out []*domain.SavingsGoal
	for _, g := range r.byID {
		if g.UserID == userID {
			clone := *g
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubGoalRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.SavingsGoal, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	if v, ok := fields["name"].(string); ok {
		g.Name = v
	}
	if v, ok := fields["target_amount"].(float64); ok {
		g.TargetAmount = v
	}
	if v, ok := fields["monthly_contribution"].(float64); ok {
		g.MonthlyContribution = v
	}
	clone := *g
	return &clone, nil
}

func (r *stubGoalRepo) AddProgress(_ context.Context, id string, delta float64) (*domain.SavingsGoal, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	g.CurrentAmount += delta
	clone := *g
	return &clone, nil
}

func (r *stubGoalRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type stubPermissionRepo struct {
	sets    map[string]*domain.PermissionSet
	findErr error
}

func newStubPermissionRepo() *stubPermissionRepo {
	return &stubPermissionRepo{sets: make(map[string]*domain.PermissionSet)}
}

func (r *stubPermissionRepo) FindByUser(_ context.Context, userID string) (*domain.PermissionSet, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	// (nil, nil) when the user never changed a permission, like the Mongo repo.
	return r.sets[userID], nil
}

func (r *stubPermissionRepo) Merge(_ context.Context, userID string, permissions map[string]bool) (*domain.PermissionSet, error) {
	set, ok := r.sets[userID]
	if !ok {
		set = &domain.PermissionSet{UserID: userID, Permissions: make(map[string]bool)}
		r.sets[userID] = set
	}
	for k, v := range permissions {
		set.Permissions[k] = v
	}
	set.UpdatedAt = time.Now().UTC()
	clone := *set
	return &clone, nil
}

type stubConsentRecords struct {
	records   []*domain.ConsentRecord
	insertErr error
}

func (r *stubConsentRecords) Insert(_ context.Context, record *domain.ConsentRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *record
	r.records = append(r.records, &clone)
	return nil
}

func (r *stubConsentRecords) ListByUser(_ context.Context, userID string, limit int) ([]*domain.ConsentRecord, error) {
	var out []*domain.ConsentRecord
	for _, rec := range r.records {
		if rec.UserID == userID && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

type stubAuditRepo struct {
	entries   []*domain.QueryLog
	seq       int
	insertErr error
}

func (r *stubAuditRepo) Insert(_ context.Context, entry *domain.QueryLog) (*domain.QueryLog, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.seq++
	clone := *entry
	clone.ID = fmt.Sprintf("audit_%d", r.seq)
	r.entries = append(r.entries, &clone)
	out := clone
	return &out, nil
}

func (r *stubAuditRepo) ListByUser(_ context.Context, userID string, limit int) ([]*domain.QueryLog, error) {
	var out []*domain.QueryLog
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

type stubPerceptionRepo struct {
	byUser map[string]*domain.Perception
}

func newStubPerceptionRepo() *stubPerceptionRepo {
	return &stubPerceptionRepo{byUser: make(map[string]*domain.Perception)}
}

func (r *stubPerceptionRepo) FindByUser(_ context.Context, userID string) (*domain.Perception, error) {
	return r.byUser[userID], nil
}

func (r *stubPerceptionRepo) Upsert(_ context.Context, p *domain.Perception) (*domain.Perception, error) {
	clone := *p
	if clone.ID == "" {
		clone.ID = "perc_" + p.UserID
	}
	r.byUser[p.UserID] = &clone
	out := clone
	return &out, nil
}

func (r *stubPerceptionRepo) MarkAttributeStatus(_ context.Context, userID, category, label, status string) error {
	p, ok := r.byUser[userID]
	if !ok {
		return domain.ErrPerceptionAttributeNotFound
	}
	for i := range p.Attributes {
		if p.Attributes[i].Category == category && p.Attributes[i].Label == label {
			p.Attributes[i].Status = status
			return nil
		}
	}
	return domain.ErrPerceptionAttributeNotFound
}

type stubDisputeRepo struct {
	disputes []*domain.PerceptionDispute
	seq      int
}

func (r *stubDisputeRepo) Insert(_ context.Context, d *domain.PerceptionDispute) (*domain.PerceptionDispute, error) {
	r.seq++
	clone := *d
	clone.ID = fmt.Sprintf("disp_%d", r.seq)
	r.disputes = append(r.disputes, &clone)
	out := clone
	return &out, nil
}

func (r *stubDisputeRepo) ListByUser(_ context.Context, userID string) ([]*domain.PerceptionDispute, error) {
	var out []*domain.PerceptionDispute
	for _, d := range r.disputes {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Stub collaborators
// ---------------------------------------------------------------------------

// stubConsentGate denies exactly the listed attributes; everything else is
// allowed, matching the fail-open consent model.
type stubConsentGate struct {
	denied map[string]bool
	err    error
}

func denyAttributes(ids ...string) *stubConsentGate {
	denied := make(map[string]bool, len(ids))
	for _, id := range ids {
		denied[id] = true
	}
	return &stubConsentGate{denied: denied}
}

func (g *stubConsentGate) IsAllowed(_ context.Context, _, attributeID string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return !g.denied[attributeID], nil
}

func (g *stubConsentGate) Filter(_ context.Context, _ string, attributeIDs []string) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	seen := make(map[string]struct{}, len(attributeIDs))
	out := make([]string, 0, len(attributeIDs))
	for _, id := range attributeIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !g.denied[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

type stubCompletion struct {
	content  string
	model    string
	err      error
	requests []ports.CompletionRequest
}

func (c *stubCompletion) Complete(_ context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	model := c.model
	if model == "" {
		model = "test-model"
	}
	return &ports.CompletionResponse{Content: c.content, Model: model}, nil
}

type stubDedup struct {
	seen     map[string]bool
	checkErr error
	markErr  error
}

func newStubDedup() *stubDedup { return &stubDedup{seen: make(map[string]bool)} }

func (d *stubDedup) IsDuplicate(_ context.Context, accountNumber, reference string) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.seen[accountNumber+":"+reference], nil
}

func (d *stubDedup) Mark(_ context.Context, accountNumber, reference string) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.seen[accountNumber+":"+reference] = true
	return nil
}

type stubCache struct {
	data map[string][]byte
}

func newStubCache() *stubCache { return &stubCache{data: make(map[string][]byte)} }

func (c *stubCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, key string, value []byte) error {
	c.data[key] = value
	return nil
}
