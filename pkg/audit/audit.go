// Package audit records administrative and lifecycle actions in MongoDB.
//
// Writes are enqueued into a buffered channel and flushed by a single
// background goroutine in batches, so recording never blocks the
// request path. A nil *Recorder is safe to use and records nothing,
// which keeps the application functional when MONGO_URI is unset.
package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	queueSize = 4096
	batchSize = 50
	drainTick = 2 * time.Second
)

// Entry is the shape stored in the audit collection.
type Entry struct {
	Time    time.Time              `bson:"time" json:"time"`
	ActorID uint                   `bson:"actor_id" json:"actorId"`
	Action  string                 `bson:"action" json:"action"`
	Target  string                 `bson:"target" json:"target"`
	Details map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
}

// Recorder buffers entries and flushes them to MongoDB in batches.
type Recorder struct {
	client *mongo.Client
	col    *mongo.Collection
	queue  chan Entry
	done   chan struct{}
}

// NewRecorder connects to uri and records into db's "audit" collection.
// The caller must eventually call Close().
func NewRecorder(uri, db string) (*Recorder, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("audit: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("audit: ping: %w", err)
	}

	col := client.Database(db).Collection("audit")
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})

	r := &Recorder{
		client: client,
		col:    col,
		queue:  make(chan Entry, queueSize),
		done:   make(chan struct{}),
	}
	go r.drainLoop()
	return r, nil
}

// Record enqueues an entry. Non-blocking; drops the entry when the
// queue is full. Safe on a nil receiver.
func (r *Recorder) Record(actorID uint, action, target string, details map[string]interface{}) {
	if r == nil {
		return
	}
	e := Entry{
		Time:    time.Now().UTC(),
		ActorID: actorID,
		Action:  action,
		Target:  target,
		Details: details,
	}
	select {
	case r.queue <- e:
	default:
	}
}

// Recent returns the latest limit entries, newest first. Returns nil
// on a nil receiver.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if r == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "time", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("audit: find: %w", err)
	}
	defer cur.Close(ctx)

	var out []Entry
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("audit: decode: %w", err)
	}
	return out, nil
}

func (r *Recorder) drainLoop() {
	ticker := time.NewTicker(drainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = r.col.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case e := <-r.queue:
			batch = append(batch, e)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-r.done:
			for len(r.queue) > 0 {
				batch = append(batch, <-r.queue)
			}
			flush()
			return
		}
	}
}

// Close flushes pending entries and disconnects. Safe to call multiple
// times and on a nil receiver.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = r.client.Disconnect(ctx)
}
