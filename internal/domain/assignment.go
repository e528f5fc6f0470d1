package domain

// MusicianAssignment binds one musician to one instrument on a service.
// The (MusicianID, Instrument) pair is the unit of assignment: the same
// musician on a different instrument is a different assignment.
type MusicianAssignment struct {
	MusicianID string `json:"musician_id" validate:"required"`
	Instrument string `json:"instrument" validate:"required"`
}

// AssignmentSet is a snapshot of who holds which role on a service.
// Construct it with NewAssignmentSet and treat it as immutable afterwards.
// Order is preserved from construction so diff output is deterministic.
type AssignmentSet struct {
	DirectorIDs []string             `json:"director_ids"`
	Musicians   []MusicianAssignment `json:"musicians"`
}

// NewAssignmentSet normalizes the inputs into a set: nil slices become
// empty, duplicate director IDs and duplicate (musician, instrument)
// pairs are dropped, first occurrence wins.
func NewAssignmentSet(directorIDs []string, musicians []MusicianAssignment) AssignmentSet {
	set := AssignmentSet{
		DirectorIDs: make([]string, 0, len(directorIDs)),
		Musicians:   make([]MusicianAssignment, 0, len(musicians)),
	}

	seenDirectors := make(map[string]struct{}, len(directorIDs))
	for _, id := range directorIDs {
		if _, ok := seenDirectors[id]; ok {
			continue
		}
		seenDirectors[id] = struct{}{}
		set.DirectorIDs = append(set.DirectorIDs, id)
	}

	seenMusicians := make(map[MusicianAssignment]struct{}, len(musicians))
	for _, ma := range musicians {
		if _, ok := seenMusicians[ma]; ok {
			continue
		}
		seenMusicians[ma] = struct{}{}
		set.Musicians = append(set.Musicians, ma)
	}

	return set
}

func (s AssignmentSet) IsEmpty() bool {
	return len(s.DirectorIDs) == 0 && len(s.Musicians) == 0
}

// AssignmentDiff holds who was added and who was removed between two
// assignment snapshots. Slices keep the insertion order of the set they
// were derived from (added from new, removed from old).
type AssignmentDiff struct {
	AddedDirectors   []string
	RemovedDirectors []string
	AddedMusicians   []MusicianAssignment
	RemovedMusicians []MusicianAssignment
}

func (d AssignmentDiff) IsEmpty() bool {
	return len(d.AddedDirectors) == 0 && len(d.RemovedDirectors) == 0 &&
		len(d.AddedMusicians) == 0 && len(d.RemovedMusicians) == 0
}

// DiffAssignments computes added = new − old and removed = old − new.
// Directors are keyed by ID, musicians by the full (ID, instrument) pair,
// so a musician switching instruments shows up as one removal plus one
// addition. Pure function; never fails.
func DiffAssignments(old, new AssignmentSet) AssignmentDiff {
	oldDirectors := stringSet(old.DirectorIDs)
	newDirectors := stringSet(new.DirectorIDs)
	oldMusicians := musicianSet(old.Musicians)
	newMusicians := musicianSet(new.Musicians)

	var diff AssignmentDiff
	for _, id := range new.DirectorIDs {
		if _, ok := oldDirectors[id]; !ok {
			diff.AddedDirectors = append(diff.AddedDirectors, id)
		}
	}
	for _, id := range old.DirectorIDs {
		if _, ok := newDirectors[id]; !ok {
			diff.RemovedDirectors = append(diff.RemovedDirectors, id)
		}
	}
	for _, ma := range new.Musicians {
		if _, ok := oldMusicians[ma]; !ok {
			diff.AddedMusicians = append(diff.AddedMusicians, ma)
		}
	}
	for _, ma := range old.Musicians {
		if _, ok := newMusicians[ma]; !ok {
			diff.RemovedMusicians = append(diff.RemovedMusicians, ma)
		}
	}
	return diff
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func musicianSet(values []MusicianAssignment) map[MusicianAssignment]struct{} {
	set := make(map[MusicianAssignment]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
