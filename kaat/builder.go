package kaat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/move-sure/ss-transport-sub002/models"
)

// SettlementStore is the write surface the builder needs.
type SettlementStore interface {
	Create(s *models.Settlement) error
	Update(s *models.Settlement) error
	GetByID(id string) (*models.Settlement, error)
	GetSettledCodes(challanNo string) ([]string, error)
}

// ProgressFunc is called after each triple of a bulk run completes, success
// or not.
type ProgressFunc func(done, total int)

// Builder creates settlement records, single-group or bulk.
type Builder struct {
	store   SettlementStore
	catalog *Catalog
	log     *logrus.Entry
}

func NewBuilder(store SettlementStore, catalog *Catalog) *Builder {
	return &Builder{
		store:   store,
		catalog: catalog,
		log:     logrus.WithField("component", "settlement_builder"),
	}
}

// SaveInput carries the operator's selection for a single-group save.
type SaveInput struct {
	ChallanNo     string
	AdminName     *string
	TransportName string
	TransportGST  *string
	CreatedBy     int64
	EditID        string // non-empty switches to update-in-place
}

// SaveGroup computes the aggregate amount for one selected set of
// consignments and writes exactly one settlement row. The write is atomic:
// on failure nothing partial exists.
func (b *Builder) SaveGroup(consignments []*models.Consignment, in SaveInput) (*models.Settlement, error) {
	if len(consignments) == 0 {
		return nil, ErrNoSelection
	}

	// the deduplication guard applies on this path too: a gr_no claimed by
	// any other settlement of the challan blocks the save
	codes, err := b.store.GetSettledCodes(in.ChallanNo)
	if err != nil {
		return nil, &PersistError{Op: "load settled codes", Err: err}
	}
	settled := SettledFromCodes(codes)
	if in.EditID != "" {
		// an edit may keep the codes it already owns
		existing, err := b.store.GetByID(in.EditID)
		if err != nil {
			return nil, &PersistError{Op: "load settlement", Err: err}
		}
		if existing != nil {
			for _, gr := range existing.GRNumbers {
				delete(settled, NormalizeGRNo(gr))
			}
		}
	}
	var taken []string
	for _, c := range consignments {
		if settled.Contains(c.GRNo) {
			taken = append(taken, NormalizeGRNo(c.GRNo))
		}
	}
	if len(taken) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySettled, strings.Join(taken, ", "))
	}

	name := strings.TrimSpace(in.TransportName)
	gst := in.TransportGST
	if name == "" {
		// auto-detect from the first consignment of the selection
		first := consignments[0]
		if first.TransportName != nil {
			name = strings.TrimSpace(*first.TransportName)
		}
		if gst == nil {
			gst = first.TransportGST
		}
	}
	if name == "" {
		return nil, ErrNoCarrier
	}

	amount, misses := BulkAmount(consignments, b.catalog.ResolveFor)
	if misses > 0 {
		b.log.WithFields(logrus.Fields{
			"challan_no":  in.ChallanNo,
			"rate_misses": misses,
		}).Warn("consignments without a rate contribute zero to the bill")
	}

	grNumbers := make([]string, 0, len(consignments))
	for _, c := range consignments {
		grNumbers = append(grNumbers, NormalizeGRNo(c.GRNo))
	}

	now := time.Now().UTC()
	settlement := &models.Settlement{
		ID:              in.EditID,
		ChallanNo:       in.ChallanNo,
		AdminName:       in.AdminName,
		TransportName:   name,
		TransportGST:    gst,
		GRNumbers:       grNumbers,
		TotalBiltyCount: len(grNumbers),
		TotalAmount:     amount,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
	}

	if in.EditID != "" {
		settlement.UpdatedAt = &now
		if err := b.store.Update(settlement); err != nil {
			return nil, &PersistError{Op: "update settlement", Err: err}
		}
		return settlement, nil
	}

	settlement.ID = uuid.NewString()
	if err := b.store.Create(settlement); err != nil {
		return nil, &PersistError{Op: "create settlement", Err: err}
	}
	return settlement, nil
}

// BulkItemResult records one attempted (admin, challan, carrier) triple.
type BulkItemResult struct {
	AdminName     string          `json:"admin_name"`
	TransportName string          `json:"transport_name"`
	TransportGST  string          `json:"transport_gst,omitempty"`
	BiltyCount    int             `json:"bilty_count"`
	Amount        decimal.Decimal `json:"amount"`
	RateMisses    int             `json:"rate_misses,omitempty"`
	Status        string          `json:"status"` // success | error
	Error         string          `json:"error,omitempty"`
}

// BulkResult is what a bulk run hands back: every attempted triple, the
// success/failure tally, and the codes claimed by successful triples during
// this run.
type BulkResult struct {
	Items     []BulkItemResult `json:"items"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Claimed   []string         `json:"claimed_gr_numbers"`
}

// AllFailed reports whether every attempted write was rejected.
func (r *BulkResult) AllFailed() bool {
	return len(r.Items) > 0 && r.Succeeded == 0
}

type bulkTriple struct {
	adminName    string
	carrierName  string
	carrierGST   string
	consignments []*models.Consignment
}

// groupTriples matches the manifest's consignments against one admin group
// and splits the matches by distinct (carrier name, carrier GST) pair: one
// admin can carry bilties under several of its sub-operator identities, and
// each pair becomes its own bill.
func groupTriples(consignments []*models.Consignment, admin *models.AdminGroup, settled SettledCodes) []bulkTriple {
	matched := MatchGroup(consignments, admin, settled)
	if len(matched) == 0 {
		return nil
	}

	byPair := make(map[string]int)
	var triples []bulkTriple
	for _, c := range matched {
		name, gst := "", ""
		if c.TransportName != nil {
			name = strings.TrimSpace(*c.TransportName)
		}
		if c.TransportGST != nil {
			gst = strings.TrimSpace(*c.TransportGST)
		}
		key := strings.ToLower(name) + "|" + strings.ToLower(gst)
		idx, ok := byPair[key]
		if !ok {
			idx = len(triples)
			byPair[key] = idx
			triples = append(triples, bulkTriple{
				adminName:   admin.AdminName,
				carrierName: name,
				carrierGST:  gst,
			})
		}
		triples[idx].consignments = append(triples[idx].consignments, c)
	}
	return triples
}

// BulkSave runs the multi-group settlement workflow. The settled-code set is
// snapshotted once up front; every selected admin group is matched against
// that snapshot, so two groups with overlapping sub-operator identities can
// both claim the same consignment inside one run (known limitation, kept).
// Triples are processed strictly sequentially, one settlement write in flight
// at a time; a failed triple never aborts the rest. The claimed-codes
// accumulator threaded through the loop makes the per-run claims observable.
func (b *Builder) BulkSave(
	ctx context.Context,
	challanNo string,
	consignments []*models.Consignment,
	admins []*models.AdminGroup,
	createdBy int64,
	progress ProgressFunc,
) (*BulkResult, error) {
	codes, err := b.store.GetSettledCodes(challanNo)
	if err != nil {
		return nil, &PersistError{Op: "load settled codes", Err: err}
	}
	settled := SettledFromCodes(codes)

	var triples []bulkTriple
	for _, admin := range admins {
		triples = append(triples, groupTriples(consignments, admin, settled)...)
	}

	result := &BulkResult{}
	claimed := make(SettledCodes)
	total := len(triples)

	for i, t := range triples {
		if ctx.Err() != nil {
			b.log.WithFields(logrus.Fields{
				"challan_no": challanNo,
				"done":       i,
				"total":      total,
			}).Warn("bulk settlement run canceled")
			break
		}

		amount, misses := BulkAmount(t.consignments, b.catalog.ResolveFor)

		grNumbers := make([]string, 0, len(t.consignments))
		for _, c := range t.consignments {
			grNumbers = append(grNumbers, NormalizeGRNo(c.GRNo))
		}

		item := BulkItemResult{
			AdminName:     t.adminName,
			TransportName: t.carrierName,
			TransportGST:  t.carrierGST,
			BiltyCount:    len(grNumbers),
			Amount:        amount,
			RateMisses:    misses,
		}

		settlement := &models.Settlement{
			ID:              uuid.NewString(),
			ChallanNo:       challanNo,
			AdminName:       &t.adminName,
			TransportName:   t.carrierName,
			GRNumbers:       grNumbers,
			TotalBiltyCount: len(grNumbers),
			TotalAmount:     amount,
			CreatedBy:       createdBy,
			CreatedAt:       time.Now().UTC(),
		}
		if t.carrierGST != "" {
			gst := t.carrierGST
			settlement.TransportGST = &gst
		}

		if err := b.store.Create(settlement); err != nil {
			item.Status = "error"
			item.Error = err.Error()
			result.Failed++
			b.log.WithFields(logrus.Fields{
				"challan_no": challanNo,
				"admin":      t.adminName,
				"carrier":    t.carrierName,
			}).WithError(err).Error("settlement write rejected, continuing")
		} else {
			item.Status = "success"
			result.Succeeded++
			for _, gr := range grNumbers {
				claimed.Add(gr)
			}
		}
		result.Items = append(result.Items, item)

		if progress != nil {
			progress(i+1, total)
		}
	}

	result.Claimed = make([]string, 0, len(claimed))
	for gr := range claimed {
		result.Claimed = append(result.Claimed, gr)
	}
	sort.Strings(result.Claimed)

	// one refresh after the run, never incremental mid-run: failed triples
	// stay available for retry, successful ones disappear from future passes
	if refreshed, err := b.store.GetSettledCodes(challanNo); err != nil {
		b.log.WithError(err).Warn("settled-code refresh after bulk run failed")
	} else {
		b.log.WithFields(logrus.Fields{
			"challan_no":    challanNo,
			"settled_count": len(refreshed),
			"succeeded":     result.Succeeded,
			"failed":        result.Failed,
		}).Info("bulk settlement run complete")
	}

	return result, nil
}
