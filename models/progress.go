package models

// DayProgress is a user's reading record for one catalog day
type DayProgress struct {
	Day       int      `bson:"day" json:"day"`
	WordsRead []string `bson:"wordsRead" json:"wordsRead"`
	Completed bool     `bson:"completed" json:"completed"`
}

// NewDayProgress returns an untouched entry for day
func NewDayProgress(day int) DayProgress {
	return DayProgress{Day: day, WordsRead: []string{}}
}

// HasRead reports whether word is already marked
func (p *DayProgress) HasRead(word string) bool {
	for _, w := range p.WordsRead {
		if w == word {
			return true
		}
	}
	return false
}

// MarkRead adds word to the read set if absent and recomputes completion
// against required, the catalog's word count for the day. Completion is
// never cleared. It returns true when the word was newly added.
func (p *DayProgress) MarkRead(word string, required int) bool {
	added := false
	if !p.HasRead(word) {
		p.WordsRead = append(p.WordsRead, word)
		added = true
	}
	if len(p.WordsRead) >= required {
		p.Completed = true
	}
	return added
}

// Clone returns a copy that shares no memory with p
func (p DayProgress) Clone() DayProgress {
	words := make([]string, len(p.WordsRead))
	copy(words, p.WordsRead)
	p.WordsRead = words
	return p
}

// MarkResult is the outcome of one mark-as-read event
type MarkResult struct {
	Progress       DayProgress
	Added          bool // the word was not read before
	NewlyCompleted bool // this event flipped Completed to true
}
