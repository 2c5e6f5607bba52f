package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// --- Helper functions ---

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := parseIssueDate(s)
	require.NoError(t, err)
	return d
}

func testSeed(t *testing.T) []model.Certification {
	t.Helper()
	return []model.Certification{
		{
			ID:          "0180a2f0-5c00-7000-8000-000000000001",
			Title:       "Responsive Web Design",
			Issuer:      "freeCodeCamp",
			IssueDate:   date(t, "2022-05-15"),
			DocumentURL: "https://example.com/sample-cert.pdf",
		},
		{
			ID:          "0185cec4-b800-7000-8000-000000000002",
			Title:       "AWS Certified Cloud Practitioner",
			Issuer:      "Amazon Web Services",
			IssueDate:   date(t, "2023-01-20"),
			DocumentURL: "https://example.com/sample-cert.pdf",
			Description: "Foundational cloud knowledge.",
		},
	}
}

func validInput(t *testing.T) model.CertificationInput {
	t.Helper()
	return model.CertificationInput{
		Title:       "CKA",
		Issuer:      "CNCF",
		IssueDate:   date(t, "2024-03-01"),
		DocumentURL: "https://x.io/c.pdf",
	}
}

func ids(certs []model.Certification) []string {
	out := make([]string, 0, len(certs))
	for _, c := range certs {
		out = append(out, c.ID)
	}
	return out
}

func newTestStore(t *testing.T, slots *mockSlotStore) *CertificationStore {
	t.Helper()
	return NewCertificationStore(context.Background(), slots, testSeed(t), slog.Default())
}

// --- Rehydration ---

func TestCertificationStore_SeedWhenSlotAbsent(t *testing.T) {
	slots := newMockSlotStore()
	store := newTestStore(t, slots)

	assert.Equal(t, testSeed(t), store.List())
	assert.Nil(t, store.Selected())
	assert.Zero(t, slots.saveCount(), "rehydration must not write")
}

func TestCertificationStore_RehydratesPersistedCollection(t *testing.T) {
	slots := newMockSlotStore()
	slots.put(CertificationsSlot, `[
		{"id":"b","title":"Second","issuer":"Y","issueDate":"2021-02-02","documentUrl":"https://y.io/2.pdf"},
		{"id":"a","title":"First","issuer":"X","issueDate":"2020-01-01","documentUrl":"https://x.io/1.pdf","description":"desc"}
	]`)

	store := newTestStore(t, slots)

	certs := store.List()
	require.Len(t, certs, 2)
	assert.Equal(t, []string{"b", "a"}, ids(certs), "insertion order is preserved")
	assert.Equal(t, "desc", certs[1].Description)
	assert.Equal(t, date(t, "2020-01-01"), certs[1].IssueDate)
}

func TestCertificationStore_EmptyArrayIsNotSeeded(t *testing.T) {
	slots := newMockSlotStore()
	slots.put(CertificationsSlot, `[]`)

	store := newTestStore(t, slots)

	assert.Empty(t, store.List())
}

func TestCertificationStore_FallsBackToSeed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "malformed json", payload: `[{"id":`},
		{name: "not an array", payload: `{"id":"a"}`},
		{name: "null", payload: `null`},
		{name: "missing title", payload: `[{"id":"a","issuer":"X","issueDate":"2020-01-01","documentUrl":"https://x.io"}]`},
		{name: "bad date", payload: `[{"id":"a","title":"T","issuer":"X","issueDate":"01/01/2020","documentUrl":"https://x.io"}]`},
		{name: "relative url", payload: `[{"id":"a","title":"T","issuer":"X","issueDate":"2020-01-01","documentUrl":"/c.pdf"}]`},
		{
			name: "duplicate ids",
			payload: `[
				{"id":"a","title":"T","issuer":"X","issueDate":"2020-01-01","documentUrl":"https://x.io"},
				{"id":"a","title":"U","issuer":"Y","issueDate":"2021-01-01","documentUrl":"https://y.io"}
			]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := newMockSlotStore()
			slots.put(CertificationsSlot, tt.payload)

			store := newTestStore(t, slots)

			assert.Equal(t, testSeed(t), store.List())
		})
	}
}

func TestCertificationStore_LoadFailureFallsBackToSeed(t *testing.T) {
	slots := newMockSlotStore()
	slots.loadErr = errors.New("disk unavailable")

	store := newTestStore(t, slots)

	assert.Equal(t, testSeed(t), store.List())
}

// --- Add ---

func TestCertificationStore_AddAppendsAndPersists(t *testing.T) {
	slots := newMockSlotStore()
	store := newTestStore(t, slots)

	added, err := store.Add(context.Background(), validInput(t))
	require.NoError(t, err)

	_, err = uuid.Parse(added.ID)
	require.NoError(t, err, "id should be a UUID")

	certs := store.List()
	require.Len(t, certs, 3)
	assert.Equal(t, added, certs[2], "new record is appended last")
	assert.Equal(t, "CKA", certs[2].Title)
	assert.Equal(t, 1, slots.saveCount())

	payload, ok := slots.payload(CertificationsSlot)
	require.True(t, ok)
	decoded, err := decodeCertifications([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, certs, decoded, "persisted collection round-trips")
}

func TestCertificationStore_AddedRecordSurvivesRestart(t *testing.T) {
	slots := newMockSlotStore()
	store := newTestStore(t, slots)

	added, err := store.Add(context.Background(), validInput(t))
	require.NoError(t, err)

	restarted := newTestStore(t, slots)
	got, ok := restarted.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, added, got)
	assert.Len(t, restarted.List(), 3)
}

func TestCertificationStore_AddRejectsInvalidInput(t *testing.T) {
	slots := newMockSlotStore()
	store := newTestStore(t, slots)

	in := validInput(t)
	in.DocumentURL = "not a url"

	_, err := store.Add(context.Background(), in)
	require.ErrorIs(t, err, ErrInvalidCertification)

	assert.Len(t, store.List(), 2)
	assert.Zero(t, slots.saveCount())
}

func TestCertificationStore_AddKeepsRecordWhenSaveFails(t *testing.T) {
	slots := newMockSlotStore()
	slots.saveErr = errors.New("quota exceeded")
	store := newTestStore(t, slots)

	added, err := store.Add(context.Background(), validInput(t))

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, CertificationsSlot, perr.Slot)
	assert.Equal(t, "save", perr.Op)

	_, ok := store.Get(added.ID)
	assert.True(t, ok, "in-memory state stays authoritative")
	assert.Len(t, store.List(), 3)
}

func TestCertificationStore_AddRetriesOnIDCollision(t *testing.T) {
	store := newTestStore(t, newMockSlotStore())

	existing := uuid.MustParse(testSeed(t)[0].ID)
	fresh := uuid.MustParse("0190a2f0-5c00-7000-8000-00000000abcd")
	sequence := []uuid.UUID{existing, fresh}
	store.newID = func() (uuid.UUID, error) {
		next := sequence[0]
		sequence = sequence[1:]
		return next, nil
	}

	added, err := store.Add(context.Background(), validInput(t))
	require.NoError(t, err)
	assert.Equal(t, fresh.String(), added.ID)
}

func TestCertificationStore_AddFailsWhenIDsKeepColliding(t *testing.T) {
	store := newTestStore(t, newMockSlotStore())

	existing := uuid.MustParse(testSeed(t)[0].ID)
	store.newID = func() (uuid.UUID, error) { return existing, nil }

	_, err := store.Add(context.Background(), validInput(t))
	require.Error(t, err)
	assert.Len(t, store.List(), 2)
}

// --- Remove ---

func TestCertificationStore_RemoveDeletesAndPersists(t *testing.T) {
	slots := newMockSlotStore()
	store := newTestStore(t, slots)
	seed := testSeed(t)

	require.NoError(t, store.Remove(context.Background(), seed[0].ID))

	assert.Equal(t, []string{seed[1].ID}, ids(store.List()))
	assert.Equal(t, 1, slots.saveCount())
}

func TestCertificationStore_RemoveAbsentIsNoop(t *testing.T) {
	slots := newMockSlotStore()
	store := newTestStore(t, slots)

	var events []StoreEvent
	store.Subscribe(func(e StoreEvent) { events = append(events, e) })

	require.NoError(t, store.Remove(context.Background(), "missing"))

	assert.Len(t, store.List(), 2)
	assert.Zero(t, slots.saveCount())
	assert.Empty(t, events)
}

func TestCertificationStore_RemoveSelectedClearsSelection(t *testing.T) {
	store := newTestStore(t, newMockSlotStore())
	seed := testSeed(t)

	_, err := store.SelectByID(seed[1].ID)
	require.NoError(t, err)

	var events []StoreEvent
	store.Subscribe(func(e StoreEvent) { events = append(events, e) })

	require.NoError(t, store.Remove(context.Background(), seed[1].ID))

	assert.Nil(t, store.Selected())
	require.Len(t, events, 2)
	assert.Equal(t, EventRemoved, events[0].Kind)
	assert.Equal(t, seed[1].ID, events[0].Certification.ID)
	assert.Equal(t, EventSelected, events[1].Kind)
	assert.Nil(t, events[1].Selected)
}

func TestCertificationStore_RemoveOtherKeepsSelection(t *testing.T) {
	store := newTestStore(t, newMockSlotStore())
	seed := testSeed(t)

	_, err := store.SelectByID(seed[1].ID)
	require.NoError(t, err)
	require.NoError(t, store.Remove(context.Background(), seed[0].ID))

	require.NotNil(t, store.Selected())
	assert.Equal(t, seed[1].ID, store.Selected().ID)
}

func TestCertificationStore_RemoveReportsSaveFailure(t *testing.T) {
	slots := newMockSlotStore()
	store := newTestStore(t, slots)
	slots.saveErr = errors.New("read-only")

	err := store.Remove(context.Background(), testSeed(t)[0].ID)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, store.List(), 1)
}

// --- Select ---

func TestCertificationStore_SelectAndClear(t *testing.T) {
	store := newTestStore(t, newMockSlotStore())
	seed := testSeed(t)

	var events []StoreEvent
	unsubscribe := store.Subscribe(func(e StoreEvent) { events = append(events, e) })

	store.Select(&seed[0])
	require.NotNil(t, store.Selected())
	assert.Equal(t, seed[0], *store.Selected())

	store.Select(nil)
	assert.Nil(t, store.Selected())

	unsubscribe()
	store.Select(&seed[1])

	require.Len(t, events, 2, "unsubscribed callbacks are not called")
	require.NotNil(t, events[0].Selected)
	assert.Equal(t, seed[0].ID, events[0].Selected.ID)
	assert.Nil(t, events[1].Selected)
}

func TestCertificationStore_SelectDoesNotCheckMembership(t *testing.T) {
	store := newTestStore(t, newMockSlotStore())

	outsider := model.Certification{ID: "outsider", DocumentURL: "https://z.io/z.pdf"}
	store.Select(&outsider)

	require.NotNil(t, store.Selected())
	assert.Equal(t, "outsider", store.Selected().ID)
}

func TestCertificationStore_SelectedIsACopy(t *testing.T) {
	store := newTestStore(t, newMockSlotStore())
	seed := testSeed(t)

	store.Select(&seed[0])
	seed[0].Title = "mutated"

	got := store.Selected()
	got.Issuer = "mutated too"

	assert.Equal(t, "Responsive Web Design", store.Selected().Title)
	assert.Equal(t, "freeCodeCamp", store.Selected().Issuer)
}

func TestCertificationStore_SelectByIDUnknown(t *testing.T) {
	store := newTestStore(t, newMockSlotStore())

	_, err := store.SelectByID("missing")
	require.ErrorIs(t, err, ErrCertificationNotFound)
	assert.Nil(t, store.Selected())
}
