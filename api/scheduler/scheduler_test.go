package scheduler_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cybermitra/guardian-api/api/scheduler"
	"github.com/cybermitra/guardian-api/databases/mocks"
	"github.com/cybermitra/guardian-api/mailer"
	mmocks "github.com/cybermitra/guardian-api/mailer/mocks"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
	"github.com/cybermitra/guardian-api/storage"
	stmocks "github.com/cybermitra/guardian-api/storage/mocks"
)

var now = time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC)

func daysAgo(n int) primitive.DateTime {
	return primitive.NewDateTimeFromTime(now.AddDate(0, 0, -n))
}

type fixture struct {
	cases  *mocks.CaseDatabase
	users  *mocks.UserDatabase
	tokens *mocks.TokenDatabase
	store  *stmocks.ObjectStore
	mail   *mmocks.Mailer
	s      *scheduler.Scheduler
}

func newFixture() *fixture {
	f := &fixture{
		cases:  &mocks.CaseDatabase{},
		users:  &mocks.UserDatabase{},
		tokens: &mocks.TokenDatabase{},
		store:  &stmocks.ObjectStore{},
		mail:   &mmocks.Mailer{},
	}
	clock := func() time.Time { return now }
	cases := services.NewCaseStore(f.cases, nil, "CAS-")
	f.s = scheduler.NewScheduler(
		cases,
		&services.Users{DB: f.users},
		&services.Subcollections{Cases: cases, Evidence: &mocks.EvidenceDatabase{}, Store: f.store, Clock: clock},
		&services.ResetTokens{DB: f.tokens, Clock: clock},
		f.mail,
		nil,
		3,
		"https://guardian.example/",
	)
	f.s.Clock = clock
	return f
}

func TestScheduler_StaleCases(t *testing.T) {
	f := newFixture()
	stale := primitive.NewObjectID()
	f.cases.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.Case{
		{CaseNumber: "CAS-00003", Status: models.CaseStatusUnverified, DateOpened: daysAgo(1)},
		{CaseNumber: "CAS-00002", Status: models.CaseStatusActive, DateOpened: daysAgo(6)},
		{ID: stale, CaseNumber: "CAS-00001", Title: "Loan app scam", Status: models.CaseStatusUnverified, DateOpened: daysAgo(5), Victim: models.Victim{Name: "Asha"}},
		{CaseNumber: "CAS-00000", Status: models.CaseStatusUnverified, DateOpened: daysAgo(9)},
	}, nil)

	rows, err := f.s.StaleCases(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CAS-00000", rows[0].CaseNumber)
	assert.Equal(t, 9, rows[0].DaysOpen)
	assert.Equal(t, "CAS-00001", rows[1].CaseNumber)
	assert.Equal(t, "Asha", rows[1].VictimName)
	assert.Equal(t, "https://guardian.example/cases/"+stale.Hex(), rows[1].Link)
}

func TestScheduler_SendStaleCaseDigest(t *testing.T) {
	f := newFixture()
	f.cases.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.Case{
		{CaseNumber: "CAS-00001", Status: models.CaseStatusUnverified, DateOpened: daysAgo(4)},
	}, nil)
	f.users.On("Find", mock.Anything, bson.M{"role": bson.M{"$in": scheduler.DigestRecipients}}, mock.Anything).Return([]models.User{
		{ID: primitive.NewObjectID(), Email: "lead@cybermitra.in", FirstName: "Lead", IsActive: true},
		{ID: primitive.NewObjectID(), Email: "former@cybermitra.in", IsActive: false},
		{ID: primitive.NewObjectID(), Email: "flaky@cybermitra.in", IsActive: true},
	}, nil)
	f.mail.On("Send", mock.Anything, mock.MatchedBy(func(m mailer.Message) bool {
		return m.ToEmail == "lead@cybermitra.in"
	})).Return(nil)
	f.mail.On("Send", mock.Anything, mock.MatchedBy(func(m mailer.Message) bool {
		return m.ToEmail == "flaky@cybermitra.in"
	})).Return(errors.New("mocked-error"))

	sent, err := f.s.SendStaleCaseDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	msg := f.mail.Calls[0].Arguments.Get(1).(mailer.Message)
	assert.Equal(t, "1 unverified case(s) need review", msg.Subject)
	assert.True(t, strings.Contains(msg.PlainText, "CAS-00001"))
	f.mail.AssertNotCalled(t, "Send", mock.Anything, mock.MatchedBy(func(m mailer.Message) bool {
		return m.ToEmail == "former@cybermitra.in"
	}))
}

func TestScheduler_SendStaleCaseDigest_NothingStale(t *testing.T) {
	f := newFixture()
	f.cases.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.Case{
		{CaseNumber: "CAS-00001", Status: models.CaseStatusUnverified, DateOpened: daysAgo(1)},
	}, nil)

	sent, err := f.s.SendStaleCaseDigest(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	f.users.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
	f.mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestScheduler_PurgeResetTokens(t *testing.T) {
	f := newFixture()
	f.tokens.On("DeleteMany", mock.Anything, mock.Anything).Return(int64(3), nil).Once()
	f.tokens.On("DeleteMany", mock.Anything, mock.Anything).Return(int64(0), errors.New("mocked-error")).Once()

	n, err := f.s.PurgeResetTokens(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = f.s.PurgeResetTokens(context.Background())
	assert.ErrorContains(t, err, "failed to purge reset tokens")
}

func TestScheduler_SweepEvidence_ListUnsupported(t *testing.T) {
	f := newFixture()
	f.store.On("List", mock.Anything, storage.EvidencePrefix).Return(nil, storage.ErrListUnsupported)

	n, err := f.s.SweepEvidence(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestScheduler_SweepEvidence_Failed(t *testing.T) {
	f := newFixture()
	f.store.On("List", mock.Anything, storage.EvidencePrefix).Return(nil, errors.New("mocked-error"))

	_, err := f.s.SweepEvidence(context.Background())
	assert.ErrorContains(t, err, "failed to sweep evidence")
}
