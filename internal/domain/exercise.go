// internal/domain/exercise.go
package domain

// Exercise is one prescribed movement inside a workout day.
type Exercise struct {
	Name         string `bson:"name" json:"name"`
	Sets         int    `bson:"sets" json:"sets"`
	Reps         string `bson:"reps" json:"reps"` // free-form, e.g. "10-12" or "30s"
	RestSeconds  *int   `bson:"rest_seconds,omitempty" json:"rest_seconds,omitempty"`
	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`

	// CanUseWeights is three-state: nil means unspecified and is treated as true.
	CanUseWeights *bool `bson:"can_use_weights,omitempty" json:"can_use_weights,omitempty"`
}

// UsesWeights resolves the three-state CanUseWeights flag.
func (e Exercise) UsesWeights() bool {
	if e.CanUseWeights == nil {
		return true
	}
	return *e.CanUseWeights
}

// Clone copies the exercise including its pointer fields.
func (e Exercise) Clone() Exercise {
	out := e
	if e.RestSeconds != nil {
		v := *e.RestSeconds
		out.RestSeconds = &v
	}
	if e.CanUseWeights != nil {
		v := *e.CanUseWeights
		out.CanUseWeights = &v
	}
	return out
}

// NewDefaultExercise is the placeholder added by the workout editor.
func NewDefaultExercise() Exercise {
	return Exercise{
		Name: "New Exercise",
		Sets: 3,
		Reps: "10-12",
	}
}
