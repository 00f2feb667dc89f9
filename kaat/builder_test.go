package kaat

import (
	"context"
	"errors"
	"testing"

	"github.com/move-sure/ss-transport-sub002/models"
)

type fakeSettlementStore struct {
	created    []*models.Settlement
	updated    []*models.Settlement
	existing   map[string]*models.Settlement
	settled    []string
	failNames  map[string]error
	codesErr   error
	codesCalls int
}

func (f *fakeSettlementStore) Create(s *models.Settlement) error {
	if err, ok := f.failNames[s.TransportName]; ok {
		return err
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSettlementStore) Update(s *models.Settlement) error {
	f.updated = append(f.updated, s)
	return nil
}

func (f *fakeSettlementStore) GetByID(id string) (*models.Settlement, error) {
	return f.existing[id], nil
}

func (f *fakeSettlementStore) GetSettledCodes(string) ([]string, error) {
	f.codesCalls++
	return f.settled, f.codesErr
}

func newTestBuilder(store *fakeSettlementStore, byCity map[int64][]*models.ResolvedRate) *Builder {
	if byCity == nil {
		byCity = map[int64][]*models.ResolvedRate{}
	}
	return NewBuilder(store, NewCatalog(&fakeRateSource{byCity: byCity}, NewMemoryRateCache()))
}

func TestSaveGroupValidation(t *testing.T) {
	b := newTestBuilder(&fakeSettlementStore{}, nil)

	if _, err := b.SaveGroup(nil, SaveInput{ChallanNo: "CH-1"}); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}

	cons := []*models.Consignment{{GRNo: "GR1"}}
	if _, err := b.SaveGroup(cons, SaveInput{ChallanNo: "CH-1"}); !errors.Is(err, ErrNoCarrier) {
		t.Fatalf("err = %v, want ErrNoCarrier", err)
	}
}

func TestSaveGroupCreate(t *testing.T) {
	store := &fakeSettlementStore{}
	b := newTestBuilder(store, map[int64][]*models.ResolvedRate{
		1: {offerFor(1, "Sharma Kanpur")},
	})

	cons := []*models.Consignment{
		{GRNo: " gr-1 ", ToCityID: i64p(1), Wt: 100, NoOfPkg: 2},
		{GRNo: "GR-2", ToCityID: i64p(1), Wt: 60, NoOfPkg: 1},
	}
	got, err := b.SaveGroup(cons, SaveInput{
		ChallanNo:     "CH-9",
		TransportName: "Sharma Kanpur",
		CreatedBy:     7,
	})
	if err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}
	if got.ID == "" {
		t.Error("created settlement has no id")
	}
	if len(store.created) != 1 || len(store.updated) != 0 {
		t.Fatalf("writes = %d create / %d update, want 1/0", len(store.created), len(store.updated))
	}
	// 100*5 + 60*5 at per-kg 5
	if !got.TotalAmount.Equal(dec("800")) {
		t.Errorf("total = %s, want 800", got.TotalAmount)
	}
	if got.TotalBiltyCount != 2 {
		t.Errorf("bilty count = %d, want 2", got.TotalBiltyCount)
	}
	if got.GRNumbers[0] != "GR-1" || got.GRNumbers[1] != "GR-2" {
		t.Errorf("gr numbers not normalized: %v", got.GRNumbers)
	}
}

func TestSaveGroupRejectsSettledCodes(t *testing.T) {
	// a gr_no already claimed by another settlement of the challan blocks
	// the single-group save the same way it blocks bulk matching
	store := &fakeSettlementStore{settled: []string{"GR-1"}}
	b := newTestBuilder(store, nil)

	cons := []*models.Consignment{
		{GRNo: " gr-1 ", TransportName: strp("Verma Transport")},
		{GRNo: "GR-2", TransportName: strp("Verma Transport")},
	}
	_, err := b.SaveGroup(cons, SaveInput{ChallanNo: "CH-1", CreatedBy: 1})
	if !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("err = %v, want ErrAlreadySettled", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("created = %d settlements despite overlap", len(store.created))
	}
}

func TestSaveGroupEditKeepsOwnCodes(t *testing.T) {
	// re-saving a settlement with codes it already owns is not a collision
	store := &fakeSettlementStore{
		settled: []string{"GR-1", "GR-9"},
		existing: map[string]*models.Settlement{
			"existing-id": {ID: "existing-id", GRNumbers: []string{"GR-1"}},
		},
	}
	b := newTestBuilder(store, nil)

	cons := []*models.Consignment{{GRNo: "GR-1", TransportName: strp("Verma Transport")}}
	got, err := b.SaveGroup(cons, SaveInput{ChallanNo: "CH-1", EditID: "existing-id"})
	if err != nil {
		t.Fatalf("SaveGroup edit: %v", err)
	}
	if len(store.updated) != 1 || got.ID != "existing-id" {
		t.Fatalf("updated = %d, id = %q", len(store.updated), got.ID)
	}

	// codes owned by a different settlement still collide
	cons = []*models.Consignment{{GRNo: "GR-9", TransportName: strp("Verma Transport")}}
	if _, err := b.SaveGroup(cons, SaveInput{ChallanNo: "CH-1", EditID: "existing-id"}); !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("err = %v, want ErrAlreadySettled for a foreign code", err)
	}
}

func TestSaveGroupCarrierAutoDetect(t *testing.T) {
	store := &fakeSettlementStore{}
	b := newTestBuilder(store, nil)

	cons := []*models.Consignment{
		{GRNo: "GR-1", TransportName: strp(" Verma Transport "), TransportGST: strp("09X")},
	}
	got, err := b.SaveGroup(cons, SaveInput{ChallanNo: "CH-3", CreatedBy: 1})
	if err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}
	if got.TransportName != "Verma Transport" {
		t.Errorf("carrier = %q, want auto-detected Verma Transport", got.TransportName)
	}
	if got.TransportGST == nil || *got.TransportGST != "09X" {
		t.Errorf("gst = %v, want auto-detected 09X", got.TransportGST)
	}
}

func TestSaveGroupEdit(t *testing.T) {
	store := &fakeSettlementStore{}
	b := newTestBuilder(store, nil)

	cons := []*models.Consignment{{GRNo: "GR-1", TransportName: strp("Verma Transport")}}
	got, err := b.SaveGroup(cons, SaveInput{ChallanNo: "CH-3", EditID: "existing-id"})
	if err != nil {
		t.Fatalf("SaveGroup edit: %v", err)
	}
	if got.ID != "existing-id" {
		t.Errorf("id = %q, want existing-id", got.ID)
	}
	if len(store.updated) != 1 || len(store.created) != 0 {
		t.Fatalf("writes = %d create / %d update, want 0/1", len(store.created), len(store.updated))
	}
	if got.UpdatedAt == nil {
		t.Error("edit must stamp updated_at")
	}
}

func bulkFixture() ([]*models.Consignment, []*models.AdminGroup) {
	consignments := []*models.Consignment{
		{GRNo: "GR-1", ToCityID: i64p(1), Wt: 100, TransportName: strp("Sharma Kanpur")},
		{GRNo: "GR-2", ToCityID: i64p(1), Wt: 80, TransportName: strp("Sharma Kanpur")},
		{GRNo: "GR-3", ToCityID: i64p(2), Wt: 120, TransportName: strp("Gupta Lucknow")},
	}
	admins := []*models.AdminGroup{
		{
			AdminName: "Sharma Roadways",
			Carriers:  []models.Carrier{{TransportName: "Sharma Kanpur", CityID: i64p(1)}},
		},
		{
			AdminName: "Gupta Carriers",
			Carriers:  []models.Carrier{{TransportName: "Gupta Lucknow", CityID: i64p(2)}},
		},
	}
	return consignments, admins
}

func TestBulkSave(t *testing.T) {
	store := &fakeSettlementStore{}
	b := newTestBuilder(store, map[int64][]*models.ResolvedRate{
		1: {offerFor(1, "Sharma Kanpur")},
		2: {offerFor(2, "Gupta Lucknow")},
	})
	consignments, admins := bulkFixture()

	var ticks []int
	result, err := b.BulkSave(context.Background(), "CH-7", consignments, admins, 3, func(done, total int) {
		if total != 2 {
			t.Errorf("progress total = %d, want 2", total)
		}
		ticks = append(ticks, done)
	})
	if err != nil {
		t.Fatalf("BulkSave: %v", err)
	}

	if result.Succeeded != 2 || result.Failed != 0 {
		t.Fatalf("succeeded/failed = %d/%d, want 2/0", result.Succeeded, result.Failed)
	}
	if len(store.created) != 2 {
		t.Fatalf("created = %d settlements, want 2", len(store.created))
	}
	if len(ticks) != 2 || ticks[0] != 1 || ticks[1] != 2 {
		t.Fatalf("progress ticks = %v, want [1 2]", ticks)
	}
	wantClaimed := []string{"GR-1", "GR-2", "GR-3"}
	if len(result.Claimed) != len(wantClaimed) {
		t.Fatalf("claimed = %v, want %v", result.Claimed, wantClaimed)
	}
	for i, gr := range wantClaimed {
		if result.Claimed[i] != gr {
			t.Fatalf("claimed = %v, want %v", result.Claimed, wantClaimed)
		}
	}
	// snapshot load plus one refresh after the run
	if store.codesCalls != 2 {
		t.Fatalf("settled-code loads = %d, want 2", store.codesCalls)
	}
}

func TestBulkSavePartialFailure(t *testing.T) {
	store := &fakeSettlementStore{
		failNames: map[string]error{"Sharma Kanpur": errors.New("unique violation")},
	}
	b := newTestBuilder(store, nil)
	consignments, admins := bulkFixture()

	result, err := b.BulkSave(context.Background(), "CH-7", consignments, admins, 3, nil)
	if err != nil {
		t.Fatalf("BulkSave: %v", err)
	}

	if result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("succeeded/failed = %d/%d, want 1/1", result.Succeeded, result.Failed)
	}
	if result.AllFailed() {
		t.Error("AllFailed must be false with one success")
	}
	if len(result.Items) != 2 {
		t.Fatalf("items = %d, want every attempted triple reported", len(result.Items))
	}
	var failed *BulkItemResult
	for i := range result.Items {
		if result.Items[i].Status == "error" {
			failed = &result.Items[i]
		}
	}
	if failed == nil || failed.Error == "" {
		t.Fatal("failed item must carry its error message")
	}
	// only the successful triple's codes are claimed
	if len(result.Claimed) != 1 || result.Claimed[0] != "GR-3" {
		t.Fatalf("claimed = %v, want [GR-3]", result.Claimed)
	}
}

func TestBulkSaveSettledSnapshotExcludes(t *testing.T) {
	store := &fakeSettlementStore{settled: []string{"GR-1", "GR-3"}}
	b := newTestBuilder(store, nil)
	consignments, admins := bulkFixture()

	result, err := b.BulkSave(context.Background(), "CH-7", consignments, admins, 3, nil)
	if err != nil {
		t.Fatalf("BulkSave: %v", err)
	}
	// GR-3 was Gupta's only consignment, so that triple vanishes entirely
	if len(result.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(result.Items))
	}
	if got := result.Items[0].BiltyCount; got != 1 {
		t.Fatalf("bilty count = %d, want only unsettled GR-2", got)
	}
}

func TestBulkSaveOverlappingAdminsDoubleClaim(t *testing.T) {
	// two admin groups whose sub-operators both fit the same consignment
	// each claim it inside one run; the settled snapshot is not updated
	// mid-run
	store := &fakeSettlementStore{}
	b := newTestBuilder(store, nil)

	consignments := []*models.Consignment{
		{GRNo: "GR-1", ToCityID: i64p(1), TransportName: strp("Shared Carrier")},
	}
	admins := []*models.AdminGroup{
		{AdminName: "Admin A", Carriers: []models.Carrier{{TransportName: "Shared Carrier"}}},
		{AdminName: "Admin B", Carriers: []models.Carrier{{CityID: i64p(1)}}},
	}

	result, err := b.BulkSave(context.Background(), "CH-7", consignments, admins, 3, nil)
	if err != nil {
		t.Fatalf("BulkSave: %v", err)
	}
	if result.Succeeded != 2 {
		t.Fatalf("succeeded = %d, want both overlapping triples written", result.Succeeded)
	}
	if len(result.Claimed) != 1 {
		t.Fatalf("claimed = %v, want the one code once", result.Claimed)
	}
}

func TestBulkSaveCanceledContext(t *testing.T) {
	store := &fakeSettlementStore{}
	b := newTestBuilder(store, nil)
	consignments, admins := bulkFixture()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := b.BulkSave(ctx, "CH-7", consignments, admins, 3, nil)
	if err != nil {
		t.Fatalf("BulkSave: %v", err)
	}
	if len(result.Items) != 0 || len(store.created) != 0 {
		t.Fatalf("canceled run wrote %d settlements", len(store.created))
	}
}

func TestBulkSaveSettledLoadFailure(t *testing.T) {
	store := &fakeSettlementStore{codesErr: errors.New("connection reset")}
	b := newTestBuilder(store, nil)
	consignments, admins := bulkFixture()

	_, err := b.BulkSave(context.Background(), "CH-7", consignments, admins, 3, nil)
	var perr *PersistError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want PersistError", err)
	}
}
