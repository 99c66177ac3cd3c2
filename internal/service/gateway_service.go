package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pay-gateway-api/internal/cache"
	"pay-gateway-api/internal/config"
	"pay-gateway-api/internal/constant"
	"pay-gateway-api/internal/dao"
	"pay-gateway-api/internal/dto"
	"pay-gateway-api/internal/event"
	"pay-gateway-api/internal/fees"
	"pay-gateway-api/internal/idgen"
	"pay-gateway-api/internal/logger"
	"pay-gateway-api/internal/model"
	"pay-gateway-api/internal/provider"
	"pay-gateway-api/internal/store"
)

// AdapterResolver resolves a provider id to its adapter. Tests swap it
// for a stub; production uses provider.ForProvider.
type AdapterResolver func(id string) (provider.Adapter, bool)

// GatewayService is the transaction orchestrator: it owns the state
// machine and composes channel store, registry, reference generator
// and provider adapters.
type GatewayService struct {
	channels store.ChannelRepository
	txs      store.TransactionRepository
	pub      event.Publisher
	adapters AdapterResolver
	lock     *cache.VerifyLock
	newRef   func() string
	log      *logrus.Logger
}

func NewGatewayService(pub event.Publisher) *GatewayService {
	return &GatewayService{
		channels: dao.NewChannelDao(),
		txs:      dao.NewTransactionDao(),
		pub:      pub,
		adapters: provider.ForProvider,
		lock:     cache.NewVerifyLock(config.C.Gateway.VerifyLockTTL),
		newRef:   idgen.NewReference,
		log:      logger.NewLogger("gateway"),
	}
}

// Initialize starts a payment. All-or-nothing: a failed or cancelled
// provider call leaves no transaction row behind.
func (s *GatewayService) Initialize(ctx context.Context, req dto.InitializeReq) (*dto.InitializeResp, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return nil, constant.NewError(constant.CodeEmailInvalid)
	}

	ch, err := s.channels.GetByID(ctx, req.ChannelID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, constant.NewError(constant.CodeChannelNotFound)
	}
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if ch.OwnerID != req.OwnerID {
		return nil, constant.NewError(constant.CodeOwnershipMismatch)
	}
	if !ch.Active() {
		return nil, constant.NewError(constant.CodeChannelInactive)
	}

	adapter, ok := s.adapters(ch.Provider)
	if !ok {
		// unreachable when channel creation validated the provider,
		// kept as a guard for catalog drift
		return nil, constant.NewError(constant.CodeUnsupportedProvider)
	}
	cfg, err := ch.Config()
	if err != nil {
		return nil, constant.NewErrorMsg(constant.CodeSystemError, "decode channel config failed")
	}

	fee := fees.Compute(amount, feeConfig(ch))

	reference, err := s.freshReference(ctx)
	if err != nil {
		return nil, err
	}

	pctx, cancel := providerContext(ctx, config.C.Provider.InitializeTimeout)
	defer cancel()
	res, err := adapter.Initialize(pctx, cfg, provider.InitializeRequest{
		Amount:        amount,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		Reference:     reference,
		CallbackURL:   req.CallbackURL,
		Metadata:      req.Metadata,
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"channel":   ch.ChannelID,
			"reference": reference,
		}).Warn("provider initialize failed")
		return nil, providerErrCode(pctx, err)
	}

	metadataJSON := ""
	if len(req.Metadata) > 0 {
		if b, err := json.Marshal(req.Metadata); err == nil {
			metadataJSON = string(b)
		}
	}
	m := &model.Transaction{
		TxID:          idgen.New(),
		Reference:     reference,
		OwnerID:       req.OwnerID,
		ChannelID:     ch.ChannelID,
		CustomerEmail: req.CustomerEmail,
		Amount:        amount,
		Currency:      req.Currency,
		Fee:           fee,
		Status:        model.StatusPending,
		Description:   req.Description,
		NotifyURL:     req.NotifyURL,
		MetadataJSON:  metadataJSON,
		RawResponse:   res.Raw,
	}
	if err := s.txs.Create(ctx, m); err != nil {
		if errors.Is(err, store.ErrDuplicateReference) {
			// the provider already saw this reference, so a silent
			// regenerate would orphan the provider-side session
			s.log.WithField("reference", reference).Error("reference collision after provider call")
			return nil, constant.NewError(constant.CodeReferenceConflict)
		}
		s.log.WithError(err).WithField("reference", reference).Error("persist transaction failed")
		return nil, constant.NewError(constant.CodeDatabaseError)
	}

	s.appendLog(ctx, m.TxID, model.StatusPending, "transaction initialized", res.Raw)
	cache.IncrStatus(ctx, model.StatusPending)
	s.publish("transaction.created", m)

	return &dto.InitializeResp{
		Reference:        reference,
		AuthorizationURL: res.AuthorizationURL,
		AccessCode:       res.AccessCode,
		Status:           string(model.StatusPending),
		Amount:           amount.String(),
		Fee:              fee.String(),
		Currency:         req.Currency,
	}, nil
}

// Verify reconciles local state with the provider. Idempotent: an
// unchanged remote status writes nothing; a contradicting terminal
// status is surfaced as an error and never applied.
func (s *GatewayService) Verify(ctx context.Context, reference string) (*dto.TransactionResp, error) {
	tx, err := s.txs.GetByReference(ctx, reference)
	if errors.Is(err, store.ErrNotFound) {
		return nil, constant.NewError(constant.CodeTransactionNotFound)
	}
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}

	release, _ := s.lock.Acquire(ctx, reference)
	defer release()

	ch, err := s.channels.GetByID(ctx, tx.ChannelID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, constant.NewError(constant.CodeChannelNotFound)
	}
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	// an inactive channel still verifies: reconciliation of history
	// must not be blocked by a later channel disable

	adapter, ok := s.adapters(ch.Provider)
	if !ok {
		return nil, constant.NewError(constant.CodeUnsupportedProvider)
	}
	cfg, err := ch.Config()
	if err != nil {
		return nil, constant.NewErrorMsg(constant.CodeSystemError, "decode channel config failed")
	}

	pctx, cancel := providerContext(ctx, config.C.Provider.VerifyTimeout)
	defer cancel()
	vres, err := adapter.Verify(pctx, cfg, reference)
	if err != nil {
		s.log.WithError(err).WithField("reference", reference).Warn("provider verify failed")
		return nil, providerErrCode(pctx, err)
	}

	next := normalizeStatus(vres.Status)
	if next == tx.Status {
		return toTransactionResp(tx), nil
	}

	if tx.Status.Terminal() {
		if next.Terminal() {
			// contradiction between two terminal states is an anomaly
			// to surface, never to apply
			msg := fmt.Sprintf("provider reported %s for locally %s transaction", next, tx.Status)
			s.log.WithFields(logrus.Fields{
				"reference": reference,
				"local":     tx.Status,
				"remote":    next,
			}).Error("terminal status contradiction")
			s.appendLog(ctx, tx.TxID, tx.Status, msg, vres.Raw)
			return toTransactionResp(tx), constant.NewError(constant.CodeStatusConflict)
		}
		// a non-terminal remote report for a terminal transaction is
		// a stale read on the provider side; confirm and move on
		return toTransactionResp(tx), nil
	}

	patch := store.TransactionPatch{Status: next, RawResponse: vres.Raw}
	if vres.ProviderTxID != "" {
		patch.ProviderRef = &vres.ProviderTxID
	}
	if vres.PayMethod != "" {
		patch.PayMethod = &vres.PayMethod
	}
	applied, err := s.txs.UpdateStatusCAS(ctx, reference, tx.Status, patch)
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if !applied {
		// a concurrent verify won the race; its write stands
		current, err := s.txs.GetByReference(ctx, reference)
		if err != nil {
			return nil, constant.NewError(constant.CodeDatabaseError)
		}
		return toTransactionResp(current), nil
	}

	s.appendLog(ctx, tx.TxID, next, "provider verification moved status from "+string(tx.Status)+" to "+string(next), vres.Raw)
	cache.IncrStatus(ctx, next)

	tx.Status = next
	tx.RawResponse = vres.Raw
	if patch.ProviderRef != nil {
		tx.ProviderRef = patch.ProviderRef
	}
	if patch.PayMethod != nil {
		tx.PayMethod = patch.PayMethod
	}
	tx.UpdatedAt = time.Now()
	s.publish("transaction.verified", tx)

	return toTransactionResp(tx), nil
}

func (s *GatewayService) Get(ctx context.Context, reference string, ownerID uint64) (*dto.TransactionResp, error) {
	tx, err := s.txs.GetByReference(ctx, reference)
	if errors.Is(err, store.ErrNotFound) {
		return nil, constant.NewError(constant.CodeTransactionNotFound)
	}
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if tx.OwnerID != ownerID {
		return nil, constant.NewError(constant.CodeOwnershipMismatch)
	}
	return toTransactionResp(tx), nil
}

func (s *GatewayService) List(ctx context.Context, ownerID uint64, limit, offset int) ([]dto.TransactionResp, error) {
	txs, err := s.txs.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	out := make([]dto.TransactionResp, 0, len(txs))
	for i := range txs {
		out = append(out, *toTransactionResp(&txs[i]))
	}
	return out, nil
}

func (s *GatewayService) Logs(ctx context.Context, reference string, ownerID uint64) ([]dto.TransactionLogResp, error) {
	tx, err := s.txs.GetByReference(ctx, reference)
	if errors.Is(err, store.ErrNotFound) {
		return nil, constant.NewError(constant.CodeTransactionNotFound)
	}
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if tx.OwnerID != ownerID {
		return nil, constant.NewError(constant.CodeOwnershipMismatch)
	}
	logs, err := s.txs.ListLogs(ctx, tx.TxID)
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	out := make([]dto.TransactionLogResp, 0, len(logs))
	for _, lg := range logs {
		out = append(out, dto.TransactionLogResp{
			Status:    string(lg.Status),
			Message:   lg.Message,
			CreatedAt: lg.CreatedAt,
		})
	}
	return out, nil
}

// FeePreview computes the fee a transaction on this channel would
// carry, without touching the provider.
func (s *GatewayService) FeePreview(ctx context.Context, req dto.FeePreviewReq, ownerID uint64) (*dto.FeePreviewResp, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	ch, err := s.channels.GetByID(ctx, req.ChannelID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, constant.NewError(constant.CodeChannelNotFound)
	}
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if ch.OwnerID != ownerID {
		return nil, constant.NewError(constant.CodeOwnershipMismatch)
	}
	fee := fees.Compute(amount, feeConfig(ch))
	return &dto.FeePreviewResp{
		Amount: amount.String(),
		Fee:    fee.String(),
		Total:  amount.Add(fee).String(),
	}, nil
}

// freshReference generates a reference the store has never seen. The
// unique index remains the final guard for the window between probe
// and insert.
func (s *GatewayService) freshReference(ctx context.Context) (string, error) {
	maxRetries := config.C.Gateway.RefMaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	for i := 0; i < maxRetries; i++ {
		ref := s.newRef()
		seen, err := s.txs.HasReference(ctx, ref)
		if err != nil {
			return "", constant.NewError(constant.CodeDatabaseError)
		}
		if !seen {
			return ref, nil
		}
	}
	return "", constant.NewError(constant.CodeReferenceConflict)
}

func (s *GatewayService) appendLog(ctx context.Context, txID uint64, status model.Status, message, raw string) {
	entry := &model.TransactionLog{
		TxID:     txID,
		Status:   status,
		Message:  message,
		DataJSON: raw,
	}
	if err := s.txs.AppendLog(ctx, entry); err != nil {
		s.log.WithError(err).WithField("tx", txID).Error("append transaction log failed")
	}
}

func (s *GatewayService) publish(topic string, tx *model.Transaction) {
	if s.pub == nil {
		return
	}
	evt := dto.TransactionEvent{
		TxID:      tx.TxID,
		Reference: tx.Reference,
		OwnerID:   tx.OwnerID,
		ChannelID: tx.ChannelID,
		Amount:    tx.Amount.String(),
		Currency:  tx.Currency,
		Status:    string(tx.Status),
		NotifyURL: tx.NotifyURL,
		Ts:        time.Now().Unix(),
	}
	if err := s.pub.Publish(topic, evt); err != nil {
		s.log.WithError(err).WithField("reference", tx.Reference).Warn("publish event failed")
	}
}

// parseAmount accepts positive major-unit amounts with at most two
// decimal places. Anything finer would be truncated by the minor-unit
// conversion inside the adapters, leaving the stored amount and the
// provider-side charge disagreeing.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil || !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return decimal.Decimal{}, constant.NewError(constant.CodeAmountInvalid)
	}
	return amount, nil
}

func feeConfig(ch *model.Channel) fees.Config {
	return fees.Config{
		Fixed:   ch.FeeFixed,
		Percent: ch.FeePercent,
		Cap:     ch.FeeCap,
	}
}

// normalizeStatus guards against an adapter leaking something outside
// the three-status contract.
func normalizeStatus(s model.Status) model.Status {
	switch s {
	case model.StatusCompleted, model.StatusFailed:
		return s
	default:
		return model.StatusPending
	}
}

func providerContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func providerErrCode(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, provider.ErrBreakerOpen):
		return constant.NewError(constant.CodeProviderUnavailable)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return constant.NewError(constant.CodeProviderTimeout)
	default:
		return constant.NewError(constant.CodeProviderError)
	}
}

func toTransactionResp(tx *model.Transaction) *dto.TransactionResp {
	resp := &dto.TransactionResp{}
	_ = copier.Copy(resp, tx)
	resp.Amount = tx.Amount.String()
	resp.Fee = tx.Fee.String()
	resp.Status = string(tx.Status)
	if tx.PayMethod != nil {
		resp.PayMethod = *tx.PayMethod
	}
	if tx.ProviderRef != nil {
		resp.ProviderRef = *tx.ProviderRef
	}
	return resp
}
