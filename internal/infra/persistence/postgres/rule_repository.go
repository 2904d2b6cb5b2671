package postgres

import (
	"context"
	"encoding/json"
	"time"

	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/repository"
	"slotwise/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const blackoutDateLayout = "2006-01-02"

// ruleRepository implements the repository.RuleRepository interface.
// Read-only: rules are maintained by the admin service.
type ruleRepository struct {
	db *gorm.DB
}

// NewRuleRepository is the constructor for ruleRepository.
func NewRuleRepository(db *gorm.DB) repository.RuleRepository {
	return &ruleRepository{
		db: db,
	}
}

// FindActiveRulesByMerchant retrieves all active rules of a merchant.
// Rules whose payload fails to decode are skipped; a broken rule must not
// take bookings down with it.
func (repo *ruleRepository) FindActiveRulesByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entity.Rule, error) {
	var ruleModels []*model.RuleModel

	if err := repo.db.WithContext(ctx).
		Where("merchant_id = ? AND is_active = ?", merchantID, true).
		Order("id ASC").
		Find(&ruleModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active rules by merchant")
	}

	rules := make([]*entity.Rule, 0, len(ruleModels))
	for _, ruleM := range ruleModels {
		rule, err := toRuleDomain(ruleM)
		if err != nil {
			continue
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// --- Mapper Functions ---

// toRuleDomain converts a GORM RuleModel to a domain Rule entity, decoding
// the JSONB payload into the constraint variant named by the kind column.
func toRuleDomain(data *model.RuleModel) (*entity.Rule, error) {
	if data == nil {
		return nil, nil
	}

	constraint, err := decodeRuleConstraint(entity.RuleKind(data.Kind), data.Payload)
	if err != nil {
		return nil, err
	}

	return &entity.Rule{
		ID:         data.ID,
		MerchantID: data.MerchantID,
		LocationID: data.LocationID,
		Constraint: constraint,
		IsActive:   data.IsActive,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}, nil
}

func decodeRuleConstraint(kind entity.RuleKind, payload []byte) (entity.RuleConstraint, error) {
	switch kind {
	case entity.RuleKindCutoff:
		var p model.RuleCutoffPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, errors.Wrap(err, "failed to decode cutoff payload")
		}
		return entity.CutoffConstraint{Minutes: p.Minutes}, nil

	case entity.RuleKindLeadTime:
		var p model.RuleLeadTimePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, errors.Wrap(err, "failed to decode lead time payload")
		}
		return entity.LeadTimeConstraint{Hours: p.Hours}, nil

	case entity.RuleKindBlackout:
		var p model.RuleBlackoutPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, errors.Wrap(err, "failed to decode blackout payload")
		}
		start, err := time.Parse(blackoutDateLayout, p.Start)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse blackout start date")
		}
		end, err := time.Parse(blackoutDateLayout, p.End)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse blackout end date")
		}
		return entity.BlackoutConstraint{Start: start, End: end}, nil

	default:
		return nil, errors.Errorf("unknown rule kind %q", kind)
	}
}
