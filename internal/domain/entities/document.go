package entities

// Counter keys, one per collection. The value stored under each key is the
// next id to hand out.
const (
	CounterUser    = "userId"
	CounterTask    = "taskId"
	CounterProfile = "profileId"
	CounterReview  = "reviewId"
	CounterRating  = "ratingId"
	CounterMessage = "messageId"
)

// Document is the root persisted object: every collection plus the _counters
// map. The persistence engine reads and writes it as one unit.
type Document struct {
	Users    []User         `json:"users"`
	Tasks    []Task         `json:"tasks"`
	Profiles []Profile      `json:"profiles"`
	Reviews  []Review       `json:"reviews"`
	Ratings  []Rating       `json:"ratings"`
	Messages []Message      `json:"messages"`
	Counters map[string]int `json:"_counters"`
}

// NewDocument returns an empty document with all counters at 1.
func NewDocument() *Document {
	return &Document{
		Users:    []User{},
		Tasks:    []Task{},
		Profiles: []Profile{},
		Reviews:  []Review{},
		Ratings:  []Rating{},
		Messages: []Message{},
		Counters: map[string]int{
			CounterUser:    1,
			CounterTask:    1,
			CounterProfile: 1,
			CounterReview:  1,
			CounterRating:  1,
			CounterMessage: 1,
		},
	}
}

// Reconcile raises each counter to max(id)+1 for its collection when it has
// fallen behind, healing manual edits or partial writes. Counters are never
// lowered, so ids stay monotonic for the life of the document.
func (d *Document) Reconcile() {
	if d.Counters == nil {
		d.Counters = map[string]int{}
	}
	if d.Messages == nil {
		d.Messages = []Message{}
	}

	raise := func(key string, maxID int) {
		if d.Counters[key] < maxID+1 {
			d.Counters[key] = maxID + 1
		}
	}

	maxUser, maxTask, maxProfile, maxReview, maxRating, maxMessage := 0, 0, 0, 0, 0, 0
	for _, u := range d.Users {
		if u.ID > maxUser {
			maxUser = u.ID
		}
	}
	for _, t := range d.Tasks {
		if t.ID > maxTask {
			maxTask = t.ID
		}
	}
	for _, p := range d.Profiles {
		if p.ID > maxProfile {
			maxProfile = p.ID
		}
	}
	for _, r := range d.Reviews {
		if r.ID > maxReview {
			maxReview = r.ID
		}
	}
	for _, r := range d.Ratings {
		if r.ID > maxRating {
			maxRating = r.ID
		}
	}
	for _, m := range d.Messages {
		if m.ID > maxMessage {
			maxMessage = m.ID
		}
	}

	raise(CounterUser, maxUser)
	raise(CounterTask, maxTask)
	raise(CounterProfile, maxProfile)
	raise(CounterReview, maxReview)
	raise(CounterRating, maxRating)
	raise(CounterMessage, maxMessage)
}

// NextID allocates the next id for a collection: it returns the current
// counter value and bumps the stored counter by one. Ids are never reused,
// even after deletion.
func (d *Document) NextID(key string) int {
	if d.Counters == nil {
		d.Counters = map[string]int{}
	}
	current := d.Counters[key]
	if current < 1 {
		current = 1
	}
	d.Counters[key] = current + 1
	return current
}

// TaskIndex returns the slice index of the task with the given id, or -1.
func (d *Document) TaskIndex(id int) int {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// UserIndex returns the slice index of the user with the given id, or -1.
func (d *Document) UserIndex(id int) int {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// UserByEmail finds a user by case-insensitive email, or nil.
func (d *Document) UserByEmail(email string) *User {
	norm := NormalizeEmail(email)
	for i := range d.Users {
		if NormalizeEmail(d.Users[i].Email) == norm {
			return &d.Users[i]
		}
	}
	return nil
}
