package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/cache"
	"github.com/roadassist/roadassist/pkg/orm"
)

// BillingRepository handles database operations for Payment and Review.
type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) CreatePayment(p *models.Payment) error {
	return orm.New(r.db).Create(p)
}

// PaymentsForRequest returns every payment attached to a service
// request.
func (r *BillingRepository) PaymentsForRequest(requestID uint) ([]models.Payment, error) {
	var out []models.Payment
	err := orm.New(r.db).Model(&models.Payment{}).
		Where("service_request_id = ?", requestID).
		Order("created_at asc").
		Find(&out)
	return out, err
}

// PaymentsForUser returns payments on every request the user is party
// to, as the owning client or as the assigned mechanic.
func (r *BillingRepository) PaymentsForUser(userID uint) ([]models.Payment, error) {
	var out []models.Payment
	err := orm.New(r.db).Model(&models.Payment{}).
		Joins("JOIN service_requests ON service_requests.id = payments.service_request_id").
		Where("service_requests.client_id = ? OR service_requests.mechanic_id = ?", userID, userID).
		Order("payments.created_at asc").
		Find(&out)
	return out, err
}

func (r *BillingRepository) CreateReview(rv *models.Review) error {
	if err := orm.New(r.db).Create(rv); err != nil {
		return err
	}
	return cache.Forget(reviewsKey(rv.ToUserID))
}

// ReviewsForUser returns reviews received by a user. The listing is
// memoized briefly; CreateReview drops the entry.
func (r *BillingRepository) ReviewsForUser(userID uint) ([]models.Review, error) {
	var out []models.Review
	err := orm.New(r.db).Model(&models.Review{}).
		Where("to_user_id = ?", userID).
		Order("created_at asc").
		Remember(reviewsKey(userID), time.Minute, &out)
	return out, err
}

func reviewsKey(userID uint) string {
	return fmt.Sprintf("reviews:user:%d", userID)
}
