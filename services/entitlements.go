package services

import (
	"errors"
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/models"

	"gorm.io/gorm"
)

// EntitlementService is the ledger of user subscriptions and remaining
// visit quota. A subscription is "active" only while status=active AND
// expires_at is in the future; the expiry side is never flipped by a
// sweep, it is filtered at query time.
type EntitlementService struct {
	db *gorm.DB
}

func NewEntitlementService(db *gorm.DB) *EntitlementService {
	return &EntitlementService{db: db}
}

// conflictSet returns the categories a new purchase of the given category
// deactivates. Combo supersedes and is superseded by everything.
func conflictSet(category string) []string {
	switch category {
	case models.CategoryCombo:
		return []string{models.CategoryGroup, models.CategoryGym, models.CategoryCombo}
	case models.CategoryGroup:
		return []string{models.CategoryGroup, models.CategoryCombo}
	case models.CategoryGym:
		return []string{models.CategoryGym, models.CategoryCombo}
	default:
		return nil
	}
}

// activeScope narrows a query to live entitlements using the lazy-expiry
// predicate.
func activeScope(q *gorm.DB, now time.Time) *gorm.DB {
	return q.Where("status = ? AND expires_at > ?", models.SubscriptionActive, now)
}

// ActiveByUser returns all live entitlements with their catalog type,
// newest purchase first.
func (s *EntitlementService) ActiveByUser(userID uint) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := activeScope(s.db.Preload("SubscriptionType"), time.Now()).
		Where("user_id = ?", userID).
		Order("purchase_date DESC").
		Find(&subs).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return subs, nil
}

// AllByUser returns the user's full subscription history.
func (s *EntitlementService) AllByUser(userID uint) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := s.db.Preload("SubscriptionType").
		Where("user_id = ?", userID).
		Order("purchase_date DESC").
		Find(&subs).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return subs, nil
}

// MainByUser returns the entitlement shown as the user's primary one:
// combo wins, otherwise the most recent purchase. Nil when none.
func (s *EntitlementService) MainByUser(userID uint) (*models.UserSubscription, error) {
	subs, err := s.ActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].SubscriptionType.Category == models.CategoryCombo {
			return &subs[i], nil
		}
	}
	if len(subs) > 0 {
		return &subs[0], nil
	}
	return nil, nil
}

// FindUsableFor returns the first live entitlement whose category is in
// categories and that still has visits, or nil when the user has none.
func (s *EntitlementService) FindUsableFor(userID uint, categories []string) (*models.UserSubscription, error) {
	subs, err := s.ActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].RemainingVisits <= 0 {
			continue
		}
		for _, cat := range categories {
			if subs[i].SubscriptionType.Category == cat {
				return &subs[i], nil
			}
		}
	}
	return nil, nil
}

// findUsableTx is FindUsableFor scoped to an open transaction, optionally
// pinned to one entitlement id (the caller selected which subscription
// pays).
func (s *EntitlementService) findUsableTx(tx *gorm.DB, userID uint, entitlementID *uint, categories []string) (*models.UserSubscription, error) {
	q := activeScope(tx.Preload("SubscriptionType"), time.Now()).
		Where("user_id = ? AND remaining_visits > 0", userID)
	if entitlementID != nil {
		q = q.Where("id = ?", *entitlementID)
	}
	var subs []models.UserSubscription
	if err := q.Order("purchase_date DESC").Find(&subs).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	for i := range subs {
		for _, cat := range categories {
			if subs[i].SubscriptionType.Category == cat {
				return &subs[i], nil
			}
		}
	}
	return nil, nil
}

// Purchase creates a new entitlement from a catalog type. Conflicting
// active entitlements (per the category conflict matrix) are expired in
// the same transaction.
func (s *EntitlementService) Purchase(userID, subscriptionTypeID uint) (*models.UserSubscription, error) {
	var created models.UserSubscription

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var subType models.SubscriptionType
		if err := tx.First(&subType, subscriptionTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(apperrors.CodeSubscriptionType, "subscription type not found")
			}
			return apperrors.Infrastructure(err)
		}

		now := time.Now()
		toDeactivate := conflictSet(subType.Category)
		if len(toDeactivate) > 0 {
			err := activeScope(tx.Model(&models.UserSubscription{}), now).
				Where("user_id = ?", userID).
				Where("subscription_type_id IN (?)",
					tx.Model(&models.SubscriptionType{}).Select("id").Where("category IN ?", toDeactivate),
				).
				Update("status", models.SubscriptionExpired).Error
			if err != nil {
				return apperrors.Infrastructure(err)
			}
		}

		created = models.UserSubscription{
			UserID:             userID,
			SubscriptionTypeID: subType.ID,
			PurchaseDate:       now,
			ExpiresAt:          now.AddDate(0, 0, subType.DurationDays),
			Status:             models.SubscriptionActive,
			RemainingVisits:    subType.VisitsCount,
		}
		if err := tx.Create(&created).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		created.SubscriptionType = subType
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// consumeTx performs the conditional visit decrement. A false return means
// no row had visits left; the caller must abort its transaction.
func (s *EntitlementService) consumeTx(tx *gorm.DB, entitlementID, userID uint) (bool, error) {
	res := tx.Model(&models.UserSubscription{}).
		Where("id = ? AND user_id = ? AND remaining_visits > 0", entitlementID, userID).
		Update("remaining_visits", gorm.Expr("remaining_visits - 1"))
	if res.Error != nil {
		return false, apperrors.Infrastructure(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// refundTx returns one visit to the entitlement. The increment is
// unconditional; double refunds are prevented upstream by the cancelled
// scope on booking lookups.
func (s *EntitlementService) refundTx(tx *gorm.DB, entitlementID, userID uint) error {
	err := tx.Model(&models.UserSubscription{}).
		Where("id = ? AND user_id = ?", entitlementID, userID).
		Update("remaining_visits", gorm.Expr("remaining_visits + 1")).Error
	if err != nil {
		return apperrors.Infrastructure(err)
	}
	return nil
}
