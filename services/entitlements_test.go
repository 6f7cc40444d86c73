package services

import (
	"testing"
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/models"

	"gorm.io/gorm"
)

func TestPurchaseCreatesActiveSubscription(t *testing.T) {
	db := openTestDB(t)
	svc := NewEntitlementService(db)
	user := createUser(t, db, "alice", models.RoleClient)
	gym := createSubscriptionType(t, db, "Gym 10", models.CategoryGym, 10, 30)

	sub, err := svc.Purchase(user.ID, gym.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if sub.RemainingVisits != 10 {
		t.Fatalf("remaining visits: want 10, got %d", sub.RemainingVisits)
	}
	if sub.Status != models.SubscriptionActive {
		t.Fatalf("status: want active, got %s", sub.Status)
	}
	wantExpiry := time.Now().AddDate(0, 0, 30)
	if diff := sub.ExpiresAt.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("expiry off by %v", diff)
	}
}

func TestPurchaseUnknownType(t *testing.T) {
	db := openTestDB(t)
	svc := NewEntitlementService(db)
	user := createUser(t, db, "alice", models.RoleClient)

	_, err := svc.Purchase(user.ID, 999)
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeSubscriptionType {
		t.Fatalf("want subscription_type_not_found, got %v", err)
	}
}

func TestCategoryExclusivity(t *testing.T) {
	db := openTestDB(t)
	svc := NewEntitlementService(db)
	user := createUser(t, db, "alice", models.RoleClient)
	gymType := createSubscriptionType(t, db, "Gym 10", models.CategoryGym, 10, 30)
	groupType := createSubscriptionType(t, db, "Group 8", models.CategoryGroup, 8, 30)
	comboType := createSubscriptionType(t, db, "Combo 20", models.CategoryCombo, 20, 60)

	gymSub, err := svc.Purchase(user.ID, gymType.ID)
	if err != nil {
		t.Fatalf("purchase gym: %v", err)
	}
	groupSub, err := svc.Purchase(user.ID, groupType.ID)
	if err != nil {
		t.Fatalf("purchase group: %v", err)
	}

	// A group purchase must not touch a gym subscription.
	active, err := svc.ActiveByUser(user.ID)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("want gym+group both active, got %d", len(active))
	}

	// A combo purchase supersedes both.
	comboSub, err := svc.Purchase(user.ID, comboType.ID)
	if err != nil {
		t.Fatalf("purchase combo: %v", err)
	}
	active, err = svc.ActiveByUser(user.ID)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 1 || active[0].ID != comboSub.ID {
		t.Fatalf("want only combo active, got %d rows", len(active))
	}

	// Reload into fresh structs; reusing one destination would keep the
	// first primary key as a query condition.
	var gymCheck models.UserSubscription
	if err := db.First(&gymCheck, gymSub.ID).Error; err != nil {
		t.Fatalf("reload gym sub: %v", err)
	}
	if gymCheck.Status != models.SubscriptionExpired {
		t.Fatalf("gym sub status: want expired, got %s", gymCheck.Status)
	}
	var groupCheck models.UserSubscription
	if err := db.First(&groupCheck, groupSub.ID).Error; err != nil {
		t.Fatalf("reload group sub: %v", err)
	}
	if groupCheck.Status != models.SubscriptionExpired {
		t.Fatalf("group sub status: want expired, got %s", groupCheck.Status)
	}
}

func TestSameCategoryPurchaseReplaces(t *testing.T) {
	db := openTestDB(t)
	svc := NewEntitlementService(db)
	user := createUser(t, db, "alice", models.RoleClient)
	gymType := createSubscriptionType(t, db, "Gym 10", models.CategoryGym, 10, 30)

	first, err := svc.Purchase(user.ID, gymType.ID)
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	second, err := svc.Purchase(user.ID, gymType.ID)
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}

	var check models.UserSubscription
	if err := db.First(&check, first.ID).Error; err != nil {
		t.Fatalf("reload first: %v", err)
	}
	if check.Status != models.SubscriptionExpired {
		t.Fatalf("first sub: want expired, got %s", check.Status)
	}
	active, _ := svc.ActiveByUser(user.ID)
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("want only second sub active")
	}
}

func TestConsumeAndRefund(t *testing.T) {
	db := openTestDB(t)
	svc := NewEntitlementService(db)
	user := createUser(t, db, "alice", models.RoleClient)
	gymType := createSubscriptionType(t, db, "Gym 2", models.CategoryGym, 2, 30)

	sub, err := svc.Purchase(user.ID, gymType.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	for i := 0; i < 2; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			ok, err := svc.consumeTx(tx, sub.ID, user.ID)
			if err != nil {
				return err
			}
			if !ok {
				t.Fatalf("consume %d: unexpectedly exhausted", i)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("consume tx: %v", err)
		}
	}
	if got := remainingVisits(t, db, sub.ID); got != 0 {
		t.Fatalf("remaining after 2 consumes: want 0, got %d", got)
	}

	// Counter never goes below zero.
	err = db.Transaction(func(tx *gorm.DB) error {
		ok, err := svc.consumeTx(tx, sub.ID, user.ID)
		if err != nil {
			return err
		}
		if ok {
			t.Fatal("consume on empty subscription should fail")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("consume tx: %v", err)
	}
	if got := remainingVisits(t, db, sub.ID); got != 0 {
		t.Fatalf("remaining stayed at: want 0, got %d", got)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.refundTx(tx, sub.ID, user.ID)
	})
	if err != nil {
		t.Fatalf("refund tx: %v", err)
	}
	if got := remainingVisits(t, db, sub.ID); got != 1 {
		t.Fatalf("remaining after refund: want 1, got %d", got)
	}
}

func TestLazyExpiry(t *testing.T) {
	db := openTestDB(t)
	svc := NewEntitlementService(db)
	user := createUser(t, db, "alice", models.RoleClient)
	gymType := createSubscriptionType(t, db, "Gym 10", models.CategoryGym, 10, 30)

	sub, err := svc.Purchase(user.ID, gymType.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	// Push expiry into the past without flipping status; lookups must
	// still treat the row as dead.
	err = db.Model(&models.UserSubscription{}).Where("id = ?", sub.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error
	if err != nil {
		t.Fatalf("backdate expiry: %v", err)
	}

	active, err := svc.ActiveByUser(user.ID)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expired-by-date sub still listed active")
	}

	usable, err := svc.FindUsableFor(user.ID, []string{models.CategoryGym, models.CategoryCombo})
	if err != nil {
		t.Fatalf("find usable: %v", err)
	}
	if usable != nil {
		t.Fatalf("expired-by-date sub still usable")
	}
}
