package service

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"pay-gateway-api/internal/constant"
	"pay-gateway-api/internal/dto"
	"pay-gateway-api/internal/model"
)

func newTestChannelService() (*ChannelService, *stubChannelRepo, *stubTxRepo) {
	channels := newStubChannelRepo()
	txs := newStubTxRepo()
	channels.txs = txs
	svc := &ChannelService{channels: channels, log: logrus.New()}
	return svc, channels, txs
}

func paystackReq(owner uint64, name string) dto.CreateChannelReq {
	return dto.CreateChannelReq{
		Name:     name,
		Provider: "paystack",
		Config:   map[string]string{"public_key": "pk", "secret_key": "sk"},
		OwnerID:  owner,
	}
}

func TestCreateFirstChannelBecomesDefault(t *testing.T) {
	svc, _, _ := newTestChannelService()
	ctx := context.Background()

	first, err := svc.Create(ctx, paystackReq(7, "main"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !first.IsDefault {
		t.Fatal("first channel must be default")
	}

	second, err := svc.Create(ctx, paystackReq(7, "backup"))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.IsDefault {
		t.Fatal("second channel must not steal the default")
	}
}

func TestCreateMissingConfigFields(t *testing.T) {
	svc, _, _ := newTestChannelService()
	req := dto.CreateChannelReq{
		Name:     "bad",
		Provider: "paystack",
		Config:   map[string]string{"public_key": "pk"},
		OwnerID:  7,
	}
	_, err := svc.Create(context.Background(), req)
	if !constant.IsCode(err, constant.CodeMissingConfigFields) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeMissingConfigFields)
	}
}

func TestCreateNegativeFeeRejected(t *testing.T) {
	svc, _, _ := newTestChannelService()
	req := paystackReq(7, "main")
	req.FeePercent = "-1"
	_, err := svc.Create(context.Background(), req)
	if !constant.IsCode(err, constant.CodeFeeConfigInvalid) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeFeeConfigInvalid)
	}
}

func TestUpdateOwnershipMismatch(t *testing.T) {
	svc, _, _ := newTestChannelService()
	ctx := context.Background()
	ch, err := svc.Create(ctx, paystackReq(7, "main"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Update(ctx, ch.ChannelID, dto.UpdateChannelReq{OwnerID: 8})
	if !constant.IsCode(err, constant.CodeOwnershipMismatch) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeOwnershipMismatch)
	}
}

func TestUpdateCannotDropDefaultFlag(t *testing.T) {
	svc, _, _ := newTestChannelService()
	ctx := context.Background()
	ch, err := svc.Create(ctx, paystackReq(7, "main"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	no := false
	_, err = svc.Update(ctx, ch.ChannelID, dto.UpdateChannelReq{IsDefault: &no, OwnerID: 7})
	if !constant.IsCode(err, constant.CodeDefaultRequired) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeDefaultRequired)
	}
}

func TestUpdateSwapsDefault(t *testing.T) {
	svc, channels, _ := newTestChannelService()
	ctx := context.Background()
	first, _ := svc.Create(ctx, paystackReq(7, "main"))
	second, _ := svc.Create(ctx, paystackReq(7, "backup"))

	yes := true
	resp, err := svc.Update(ctx, second.ChannelID, dto.UpdateChannelReq{IsDefault: &yes, OwnerID: 7})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !resp.IsDefault {
		t.Fatal("updated channel should be default")
	}
	old, _ := channels.GetByID(ctx, first.ChannelID)
	if old.IsDefault {
		t.Fatal("previous default was not cleared")
	}
}

func TestUpdateConfigMergesForSameProvider(t *testing.T) {
	svc, channels, _ := newTestChannelService()
	ctx := context.Background()
	ch, _ := svc.Create(ctx, paystackReq(7, "main"))

	_, err := svc.Update(ctx, ch.ChannelID, dto.UpdateChannelReq{
		Config:  map[string]string{"secret_key": "sk_rotated"},
		OwnerID: 7,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	stored, _ := channels.GetByID(ctx, ch.ChannelID)
	cfg, _ := stored.Config()
	if cfg["secret_key"] != "sk_rotated" || cfg["public_key"] != "pk" {
		t.Fatalf("config after merge = %v", cfg)
	}
}

func TestDeleteInUseChannel(t *testing.T) {
	svc, _, txs := newTestChannelService()
	ctx := context.Background()
	ch, _ := svc.Create(ctx, paystackReq(7, "main"))

	txs.Create(ctx, &model.Transaction{TxID: 1, Reference: "TX1", OwnerID: 7, ChannelID: ch.ChannelID, Status: model.StatusPending})

	err := svc.Delete(ctx, ch.ChannelID, 7)
	if !constant.IsCode(err, constant.CodeChannelInUse) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeChannelInUse)
	}
	if _, err := svc.Get(ctx, ch.ChannelID, 7); err != nil {
		t.Fatalf("channel gone after refused delete: %v", err)
	}
}

func TestCreateConcurrentKeepsSingleDefault(t *testing.T) {
	svc, channels, _ := newTestChannelService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Create(ctx, paystackReq(7, "ch")); err != nil {
				t.Errorf("create %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	chs, _ := channels.ListByOwner(ctx, 7)
	defaults := 0
	for _, ch := range chs {
		if ch.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("default count = %d, want exactly 1", defaults)
	}
}

func TestDeleteDefaultPromotesLowestSibling(t *testing.T) {
	svc, channels, _ := newTestChannelService()
	ctx := context.Background()
	first, _ := svc.Create(ctx, paystackReq(7, "main"))
	second, _ := svc.Create(ctx, paystackReq(7, "backup"))
	third, _ := svc.Create(ctx, paystackReq(7, "spare"))

	if err := svc.Delete(ctx, first.ChannelID, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	promoted, _ := channels.GetByID(ctx, second.ChannelID)
	if !promoted.IsDefault {
		t.Fatal("lowest remaining channel was not promoted")
	}
	other, _ := channels.GetByID(ctx, third.ChannelID)
	if other.IsDefault {
		t.Fatal("two defaults after promotion")
	}
}

func TestGetPublicConfigFiltersSecrets(t *testing.T) {
	svc, _, _ := newTestChannelService()
	ctx := context.Background()
	ch, _ := svc.Create(ctx, paystackReq(7, "main"))

	pub, err := svc.GetPublicConfig(ctx, ch.ChannelID)
	if err != nil {
		t.Fatalf("public config: %v", err)
	}
	if pub.Config["public_key"] != "pk" {
		t.Fatalf("public_key missing: %v", pub.Config)
	}
	if _, leaked := pub.Config["secret_key"]; leaked {
		t.Fatal("secret_key leaked into public config")
	}
}

func TestGetPublicConfigInactiveIsNotFound(t *testing.T) {
	svc, _, _ := newTestChannelService()
	ctx := context.Background()
	ch, _ := svc.Create(ctx, paystackReq(7, "main"))

	off := false
	if _, err := svc.Update(ctx, ch.ChannelID, dto.UpdateChannelReq{IsActive: &off, OwnerID: 7}); err != nil {
		t.Fatalf("disable: %v", err)
	}
	_, err := svc.GetPublicConfig(ctx, ch.ChannelID)
	if !constant.IsCode(err, constant.CodeChannelNotFound) {
		t.Fatalf("err = %v, want code %d", err, constant.CodeChannelNotFound)
	}
}
