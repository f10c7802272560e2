package domain

// Question is one entry of the question section: the name, type and class a client asks about.
// It is owned by its Message and never mutated after decode.
type Question struct {
	Name  Name
	Type  RRType
	Class RRClass
}

// NewQuestion constructs a Question from a presentation name.
func NewQuestion(name string, rrtype RRType, class RRClass) (Question, error) {
	n, err := NewName(name)
	if err != nil {
		return Question{}, err
	}
	return Question{Name: n, Type: rrtype, Class: class}, nil
}
