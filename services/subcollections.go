package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/events"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/storage"
)

// OrphanGracePeriod is how old an unreferenced evidence object must be before the sweep removes it
const OrphanGracePeriod = time.Hour

// EvidenceFile is the binary half of a file evidence submission
type EvidenceFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Subcollections manages the timeline, notes, evidence and assistant chat of a case
type Subcollections struct {
	Cases     *CaseStore
	Timeline  databases.TimelineDatabase
	Notes     databases.NoteDatabase
	Evidence  databases.EvidenceDatabase
	AgentChat databases.AgentChatDatabase
	Store     storage.ObjectStore
	Events    events.Publisher
	Clock     Clock
}

func sortDesc(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}

func sortAsc(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: 1}})
}

func requireCaseID(caseID string) error {
	if strings.TrimSpace(caseID) == "" {
		return invalid("caseId is required")
	}
	return nil
}

// AddTimelineEvent appends an event to the case timeline
func (s *Subcollections) AddTimelineEvent(ctx context.Context, caseID string, data models.NewTimelineEvent, addedBy string) (string, error) {
	if err := requireCaseID(caseID); err != nil {
		return "", err
	}
	if err := checkStruct(data); err != nil {
		return "", err
	}
	if err := s.Cases.exists(ctx, caseID); err != nil {
		return "", err
	}

	now := s.Clock.now()
	eventDate := data.EventDate
	if eventDate.IsZero() {
		eventDate = now
	}
	attachments := data.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	doc := models.TimelineEvent{
		CaseID:      caseID,
		Title:       data.Title,
		Description: data.Description,
		EventType:   data.EventType,
		EventDate:   dateTime(eventDate),
		IsPublic:    data.IsPublic,
		AddedBy:     addedBy,
		Attachments: attachments,
		CreatedAt:   dateTime(now),
		UpdatedAt:   dateTime(now),
	}
	id, err := s.Timeline.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add timeline event: %w", err)
	}
	publish(ctx, s.Events, events.New(events.TimelineAdded, caseID, addedBy, map[string]interface{}{"eventId": id}))
	return id, nil
}

// ListTimeline returns the case timeline, newest eventDate first
func (s *Subcollections) ListTimeline(ctx context.Context, caseID string) ([]models.TimelineEvent, error) {
	if err := requireCaseID(caseID); err != nil {
		return nil, err
	}
	docs, err := s.Timeline.Find(ctx, bson.M{"caseId": caseID}, sortDesc("eventDate"))
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline: %w", err)
	}
	if docs == nil {
		docs = []models.TimelineEvent{}
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].EventDate > docs[j].EventDate })
	return docs, nil
}

// AddNote appends a note to the case
func (s *Subcollections) AddNote(ctx context.Context, caseID string, data models.NewNote, addedBy string) (string, error) {
	if err := requireCaseID(caseID); err != nil {
		return "", err
	}
	data.Content = strings.TrimSpace(data.Content)
	if err := checkStruct(data); err != nil {
		return "", err
	}
	if err := s.Cases.exists(ctx, caseID); err != nil {
		return "", err
	}

	now := dateTime(s.Clock.now())
	attachments := data.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	doc := models.Note{
		CaseID:      caseID,
		Content:     data.Content,
		NoteType:    data.NoteType,
		IsPrivate:   data.IsPrivate,
		AddedBy:     addedBy,
		Attachments: attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.Notes.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add note: %w", err)
	}
	publish(ctx, s.Events, events.New(events.NoteAdded, caseID, addedBy, map[string]interface{}{"noteId": id}))
	return id, nil
}

// ListNotes returns the case notes, newest first
func (s *Subcollections) ListNotes(ctx context.Context, caseID string) ([]models.Note, error) {
	if err := requireCaseID(caseID); err != nil {
		return nil, err
	}
	docs, err := s.Notes.Find(ctx, bson.M{"caseId": caseID}, sortDesc("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	if docs == nil {
		docs = []models.Note{}
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].CreatedAt > docs[j].CreatedAt })
	return docs, nil
}

func validateEvidence(data models.NewEvidence, file *EvidenceFile) error {
	if err := checkStruct(data); err != nil {
		return err
	}
	switch data.EvidenceType {
	case models.EvidenceTypeFile:
		if file == nil || file.Reader == nil || strings.TrimSpace(file.Name) == "" {
			return invalid("file is required for file evidence")
		}
	case models.EvidenceTypeURL:
		if err := checkVar("url", data.URL, "url"); err != nil {
			return err
		}
	}
	return nil
}

// AddEvidence records a piece of evidence. File evidence is uploaded first; if
// the record cannot be written the uploaded object is removed again.
func (s *Subcollections) AddEvidence(ctx context.Context, caseID string, data models.NewEvidence, file *EvidenceFile, addedBy string) (string, error) {
	if err := requireCaseID(caseID); err != nil {
		return "", err
	}
	if err := validateEvidence(data, file); err != nil {
		return "", err
	}
	if err := s.Cases.exists(ctx, caseID); err != nil {
		return "", err
	}

	now := s.Clock.now()
	evidenceDate := data.EvidenceDate
	if evidenceDate.IsZero() {
		evidenceDate = now
	}
	doc := models.Evidence{
		CaseID:       caseID,
		Title:        data.Title,
		Description:  data.Description,
		EvidenceType: data.EvidenceType,
		EvidenceDate: dateTime(evidenceDate),
		AddedBy:      addedBy,
		CreatedAt:    dateTime(now),
		UpdatedAt:    dateTime(now),
	}

	switch data.EvidenceType {
	case models.EvidenceTypeURL:
		doc.URL = data.URL
	case models.EvidenceTypeText:
		doc.TextContent = data.TextContent
	case models.EvidenceTypeFile:
		key := storage.EvidenceKey(caseID, file.Name, now)
		obj, err := s.Store.Upload(ctx, key, file.Reader, file.Size, file.ContentType)
		if err != nil {
			return "", fmt.Errorf("failed to upload evidence file: %w", err)
		}
		doc.FileURL = obj.URL
		doc.FileName = file.Name
		doc.FileType = file.ContentType
		doc.StorageKey = obj.Key
	}

	id, err := s.Evidence.InsertOne(ctx, doc)
	if err != nil {
		if doc.StorageKey != "" {
			if derr := s.Store.Delete(context.WithoutCancel(ctx), doc.StorageKey); derr != nil && !errors.Is(derr, storage.ErrObjectNotFound) {
				zap.S().Warnw("failed to remove uploaded evidence after record write failed", "key", doc.StorageKey, "error", derr)
			}
		}
		return "", fmt.Errorf("failed to add evidence: %w", err)
	}
	publish(ctx, s.Events, events.New(events.EvidenceAdded, caseID, addedBy, map[string]interface{}{"evidenceId": id, "evidenceType": doc.EvidenceType}))
	return id, nil
}

// ListEvidence returns the case evidence, newest evidenceDate first
func (s *Subcollections) ListEvidence(ctx context.Context, caseID string) ([]models.Evidence, error) {
	if err := requireCaseID(caseID); err != nil {
		return nil, err
	}
	docs, err := s.Evidence.Find(ctx, bson.M{"caseId": caseID}, sortDesc("evidenceDate"))
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence: %w", err)
	}
	if docs == nil {
		docs = []models.Evidence{}
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].EvidenceDate > docs[j].EvidenceDate })
	return docs, nil
}

// DeleteEvidence removes the stored object, then the record. A missing object is
// not an error; any other storage failure keeps the record.
func (s *Subcollections) DeleteEvidence(ctx context.Context, caseID, evidenceID, actorID string) error {
	if err := requireCaseID(caseID); err != nil {
		return err
	}
	oid, err := objectID("evidence", evidenceID)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": oid, "caseId": caseID}
	doc, err := s.Evidence.FindOne(ctx, filter)
	if err != nil {
		if databases.IsNotFound(err) {
			return notFound("evidence", evidenceID)
		}
		return fmt.Errorf("failed to get evidence %s: %w", evidenceID, err)
	}

	if doc.EvidenceType == models.EvidenceTypeFile && doc.StorageKey != "" {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			if !errors.Is(err, storage.ErrObjectNotFound) {
				return fmt.Errorf("failed to delete evidence file: %w", err)
			}
			zap.S().Infow("evidence file already absent", "key", doc.StorageKey, "evidenceId", evidenceID)
		}
	}

	if _, err := s.Evidence.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete evidence %s: %w", evidenceID, err)
	}
	publish(ctx, s.Events, events.New(events.EvidenceDeleted, caseID, actorID, map[string]interface{}{"evidenceId": evidenceID}))
	return nil
}

// AddAgentMessage appends a turn to the case assistant chat
func (s *Subcollections) AddAgentMessage(ctx context.Context, caseID string, data models.NewAgentMessage, userID string) (string, error) {
	if err := requireCaseID(caseID); err != nil {
		return "", err
	}
	if err := checkStruct(data); err != nil {
		return "", err
	}
	if err := s.Cases.exists(ctx, caseID); err != nil {
		return "", err
	}
	doc := models.AgentMessage{
		CaseID:    caseID,
		Role:      data.Role,
		Content:   data.Content,
		UserID:    userID,
		CreatedAt: dateTime(s.Clock.now()),
	}
	id, err := s.AgentChat.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to add agent message: %w", err)
	}
	publish(ctx, s.Events, events.New(events.AgentMessage, caseID, userID, map[string]interface{}{"messageId": id, "role": data.Role}))
	return id, nil
}

// ListAgentMessages returns the case chat in conversation order
func (s *Subcollections) ListAgentMessages(ctx context.Context, caseID string) ([]models.AgentMessage, error) {
	if err := requireCaseID(caseID); err != nil {
		return nil, err
	}
	docs, err := s.AgentChat.Find(ctx, bson.M{"caseId": caseID}, sortAsc("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list agent messages: %w", err)
	}
	if docs == nil {
		docs = []models.AgentMessage{}
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].CreatedAt < docs[j].CreatedAt })
	return docs, nil
}

// SweepOrphanEvidence removes stored evidence objects that no record refers to.
// Objects younger than OrphanGracePeriod are skipped so in-flight uploads survive.
func (s *Subcollections) SweepOrphanEvidence(ctx context.Context) (int, error) {
	keys, err := s.Store.List(ctx, storage.EvidencePrefix)
	if err != nil {
		return 0, err
	}
	cutoff := s.Clock.now().Add(-OrphanGracePeriod)
	removed := 0
	for _, key := range keys {
		if uploaded, ok := uploadTime(key); !ok || uploaded.After(cutoff) {
			continue
		}
		_, err := s.Evidence.FindOne(ctx, bson.M{"storageKey": key})
		if err == nil {
			continue
		}
		if !databases.IsNotFound(err) {
			return removed, fmt.Errorf("failed to look up evidence for %s: %w", key, err)
		}
		if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			zap.S().Warnw("failed to remove orphaned evidence", "key", key, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// uploadTime reads the millisecond timestamp out of evidence/<caseId>/<ms>-<name>
func uploadTime(key string) (time.Time, bool) {
	base := key[strings.LastIndex(key, "/")+1:]
	ms, _, found := strings.Cut(base, "-")
	if !found {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(n), true
}
