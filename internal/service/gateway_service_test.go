package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pay-gateway-api/internal/cache"
	"pay-gateway-api/internal/constant"
	"pay-gateway-api/internal/dto"
	"pay-gateway-api/internal/model"
	"pay-gateway-api/internal/provider"
)

// stubAdapter scripts provider behavior per test.
type stubAdapter struct {
	initErr      error
	initCalls    int
	verifyStatus model.Status
	verifyErr    error
	verifyCalls  int
}

func (a *stubAdapter) ID() string { return "test" }

func (a *stubAdapter) Initialize(ctx context.Context, cfg map[string]string, req provider.InitializeRequest) (*provider.InitializeResult, error) {
	a.initCalls++
	if a.initErr != nil {
		return nil, a.initErr
	}
	return &provider.InitializeResult{
		AuthorizationURL: "https://pay.example/" + req.Reference,
		AccessCode:       "ac_" + req.Reference,
		Raw:              `{"ok":true}`,
	}, nil
}

func (a *stubAdapter) Verify(ctx context.Context, cfg map[string]string, reference string) (*provider.VerifyResult, error) {
	a.verifyCalls++
	if a.verifyErr != nil {
		return nil, a.verifyErr
	}
	return &provider.VerifyResult{
		Status:       a.verifyStatus,
		ProviderTxID: "prov_1",
		PayMethod:    "card",
		Raw:          `{"verified":true}`,
	}, nil
}

type gatewayFixture struct {
	svc      *GatewayService
	channels *stubChannelRepo
	txs      *stubTxRepo
	adapter  *stubAdapter
	pub      *stubPublisher
	refs     []string
	refIdx   int
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	f := &gatewayFixture{
		channels: newStubChannelRepo(),
		txs:      newStubTxRepo(),
		adapter:  &stubAdapter{verifyStatus: model.StatusCompleted},
		pub:      &stubPublisher{},
		refs:     []string{"TXAAA", "TXBBB", "TXCCC"},
	}
	f.svc = &GatewayService{
		channels: f.channels,
		txs:      f.txs,
		pub:      f.pub,
		adapters: func(id string) (provider.Adapter, bool) {
			if id == "test" {
				return f.adapter, true
			}
			return nil, false
		},
		lock: cache.NewVerifyLock(0),
		newRef: func() string {
			ref := f.refs[f.refIdx%len(f.refs)]
			f.refIdx++
			return ref
		},
		log: logrus.New(),
	}
	return f
}

func (f *gatewayFixture) seedChannel(t *testing.T, owner uint64) *model.Channel {
	t.Helper()
	feeCap := decimal.NewFromInt(2000)
	ch := &model.Channel{
		OwnerID:    owner,
		Name:       "main",
		Provider:   "test",
		FeeFixed:   decimal.NewFromInt(100),
		FeePercent: decimal.NewFromFloat(1.5),
		FeeCap:     &feeCap,
		Status:     model.ChannelStatusActive,
	}
	if err := ch.SetConfig(map[string]string{"api_key": "tk"}); err != nil {
		t.Fatalf("set config: %v", err)
	}
	if err := f.channels.Create(context.Background(), ch); err != nil {
		t.Fatalf("seed channel: %v", err)
	}
	return ch
}

func initReq(owner, channelID uint64, amount string) dto.InitializeReq {
	return dto.InitializeReq{
		ChannelID:     channelID,
		Amount:        amount,
		Currency:      "NGN",
		CustomerEmail: "buyer@example.com",
		OwnerID:       owner,
	}
}

func TestInitializeHappyPath(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	resp, err := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, "10000"))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if resp.Status != string(model.StatusPending) {
		t.Fatalf("status = %s, want pending", resp.Status)
	}
	if resp.Fee != "250" {
		t.Fatalf("fee = %s, want 250", resp.Fee)
	}
	if resp.AuthorizationURL == "" || resp.Reference == "" {
		t.Fatalf("incomplete response: %+v", resp)
	}

	stored, err := f.txs.GetByReference(ctx, resp.Reference)
	if err != nil {
		t.Fatalf("stored tx: %v", err)
	}
	if stored.Status != model.StatusPending || !stored.Fee.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("stored = %+v", stored)
	}
	logs, _ := f.txs.ListLogs(ctx, stored.TxID)
	if len(logs) != 1 {
		t.Fatalf("log count = %d, want 1", len(logs))
	}
	if len(f.pub.topics) != 1 || f.pub.topics[0] != "transaction.created" {
		t.Fatalf("published = %v", f.pub.topics)
	}
}

func TestInitializeRejectsBadAmount(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	for _, amount := range []string{"0", "-5", "abc"} {
		_, err := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, amount))
		if !constant.IsCode(err, constant.CodeAmountInvalid) {
			t.Fatalf("amount %q: err = %v, want code %d", amount, err, constant.CodeAmountInvalid)
		}
	}
	if f.adapter.initCalls != 0 {
		t.Fatal("provider must not be called for invalid amounts")
	}
}

// Amounts finer than two decimal places cannot survive the minor-unit
// conversion, so the stored amount and the provider charge would drift.
func TestInitializeRejectsSubMinorUnitAmount(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	for _, amount := range []string{"100.005", "0.001", "9.999"} {
		_, err := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, amount))
		if !constant.IsCode(err, constant.CodeAmountInvalid) {
			t.Fatalf("amount %q: err = %v, want code %d", amount, err, constant.CodeAmountInvalid)
		}
	}
	if f.adapter.initCalls != 0 {
		t.Fatal("provider must not be called for invalid amounts")
	}
	txs, _ := f.txs.ListByOwner(ctx, 7, 0, 0)
	if len(txs) != 0 {
		t.Fatalf("rows persisted for rejected amounts: %d", len(txs))
	}

	// trailing zeros are fine, the value is still whole minor units
	if _, err := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, "100.50")); err != nil {
		t.Fatalf("amount 100.50 rejected: %v", err)
	}

	_, err := f.svc.FeePreview(ctx, dto.FeePreviewReq{ChannelID: ch.ChannelID, Amount: "100.005"}, 7)
	if !constant.IsCode(err, constant.CodeAmountInvalid) {
		t.Fatalf("fee preview err = %v, want code %d", err, constant.CodeAmountInvalid)
	}
}

func TestInitializeRejectsBadEmail(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	req := initReq(7, ch.ChannelID, "100")
	req.CustomerEmail = "not-an-email"
	_, err := f.svc.Initialize(context.Background(), req)
	if !constant.IsCode(err, constant.CodeEmailInvalid) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeEmailInvalid)
	}
}

func TestInitializeInactiveChannel(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ch.Status = model.ChannelStatusDisabled
	f.channels.Save(context.Background(), ch)

	_, err := f.svc.Initialize(context.Background(), initReq(7, ch.ChannelID, "100"))
	if !constant.IsCode(err, constant.CodeChannelInactive) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeChannelInactive)
	}
}

func TestInitializeOwnershipMismatch(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	_, err := f.svc.Initialize(context.Background(), initReq(8, ch.ChannelID, "100"))
	if !constant.IsCode(err, constant.CodeOwnershipMismatch) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeOwnershipMismatch)
	}
}

func TestInitializeProviderFailureLeavesNoRow(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	f.adapter.initErr = errors.New("connection refused")
	ctx := context.Background()

	_, err := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, "100"))
	if !constant.IsCode(err, constant.CodeProviderError) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeProviderError)
	}
	txs, _ := f.txs.ListByOwner(ctx, 7, 0, 0)
	if len(txs) != 0 {
		t.Fatalf("rows persisted after provider failure: %d", len(txs))
	}
	if len(f.pub.topics) != 0 {
		t.Fatalf("events published after provider failure: %v", f.pub.topics)
	}
}

func TestInitializeBreakerOpenMapsToUnavailable(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	f.adapter.initErr = provider.ErrBreakerOpen

	_, err := f.svc.Initialize(context.Background(), initReq(7, ch.ChannelID, "100"))
	if !constant.IsCode(err, constant.CodeProviderUnavailable) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeProviderUnavailable)
	}
}

func TestInitializeRegeneratesSeenReference(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	// first candidate already exists, generator must move on
	f.txs.Create(ctx, &model.Transaction{TxID: 99, Reference: "TXAAA", OwnerID: 1, ChannelID: 42, Status: model.StatusPending})

	resp, err := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, "100"))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if resp.Reference != "TXBBB" {
		t.Fatalf("reference = %s, want the regenerated TXBBB", resp.Reference)
	}
}

func TestVerifyMovesPendingToCompleted(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	init, err := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, "100"))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	resp, err := f.svc.Verify(ctx, init.Reference)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if resp.Status != string(model.StatusCompleted) {
		t.Fatalf("status = %s, want completed", resp.Status)
	}
	if resp.ProviderRef != "prov_1" || resp.PayMethod != "card" {
		t.Fatalf("provider fields not applied: %+v", resp)
	}

	stored, _ := f.txs.GetByReference(ctx, init.Reference)
	if stored.Status != model.StatusCompleted {
		t.Fatalf("stored status = %s", stored.Status)
	}
	logs, _ := f.txs.ListLogs(ctx, stored.TxID)
	if len(logs) != 2 {
		t.Fatalf("log count = %d, want init + transition", len(logs))
	}
	if f.pub.topics[len(f.pub.topics)-1] != "transaction.verified" {
		t.Fatalf("published = %v", f.pub.topics)
	}
}

func TestVerifyIdempotentOnUnchangedStatus(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	init, _ := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, "100"))
	if _, err := f.svc.Verify(ctx, init.Reference); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	stored, _ := f.txs.GetByReference(ctx, init.Reference)
	logsBefore, _ := f.txs.ListLogs(ctx, stored.TxID)
	eventsBefore := len(f.pub.topics)

	resp, err := f.svc.Verify(ctx, init.Reference)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if resp.Status != string(model.StatusCompleted) {
		t.Fatalf("status = %s", resp.Status)
	}
	logsAfter, _ := f.txs.ListLogs(ctx, stored.TxID)
	if len(logsAfter) != len(logsBefore) {
		t.Fatal("repeat verify wrote a log entry")
	}
	if len(f.pub.topics) != eventsBefore {
		t.Fatal("repeat verify published an event")
	}
}

func TestVerifyTerminalContradiction(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	init, _ := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, "100"))
	if _, err := f.svc.Verify(ctx, init.Reference); err != nil {
		t.Fatalf("first verify: %v", err)
	}

	// provider now contradicts the locally terminal state
	f.adapter.verifyStatus = model.StatusFailed
	resp, err := f.svc.Verify(ctx, init.Reference)
	if !constant.IsCode(err, constant.CodeStatusConflict) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeStatusConflict)
	}
	if resp == nil || resp.Status != string(model.StatusCompleted) {
		t.Fatalf("local state must stand: %+v", resp)
	}
	stored, _ := f.txs.GetByReference(ctx, init.Reference)
	if stored.Status != model.StatusCompleted {
		t.Fatalf("stored status changed to %s", stored.Status)
	}
}

func TestVerifyStaleNonTerminalRemote(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	init, _ := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, "100"))
	if _, err := f.svc.Verify(ctx, init.Reference); err != nil {
		t.Fatalf("first verify: %v", err)
	}

	f.adapter.verifyStatus = model.StatusPending
	resp, err := f.svc.Verify(ctx, init.Reference)
	if err != nil {
		t.Fatalf("stale verify: %v", err)
	}
	if resp.Status != string(model.StatusCompleted) {
		t.Fatalf("status = %s, terminal state must stand", resp.Status)
	}
}

func TestVerifyUnknownReference(t *testing.T) {
	f := newGatewayFixture(t)
	_, err := f.svc.Verify(context.Background(), "TXNOPE")
	if !constant.IsCode(err, constant.CodeTransactionNotFound) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeTransactionNotFound)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	init, _ := f.svc.Initialize(ctx, initReq(7, ch.ChannelID, "100"))
	if _, err := f.svc.Get(ctx, init.Reference, 7); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	_, err := f.svc.Get(ctx, init.Reference, 8)
	if !constant.IsCode(err, constant.CodeOwnershipMismatch) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeOwnershipMismatch)
	}
}

func TestFeePreviewMatchesInitialize(t *testing.T) {
	f := newGatewayFixture(t)
	ch := f.seedChannel(t, 7)
	ctx := context.Background()

	preview, err := f.svc.FeePreview(ctx, dto.FeePreviewReq{ChannelID: ch.ChannelID, Amount: "10000"}, 7)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Fee != "250" || preview.Total != "10250" {
		t.Fatalf("preview = %+v", preview)
	}
}
