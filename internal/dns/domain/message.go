package domain

// Message is a DNS message: a header plus ordered question and answer sections.
// Authority and additional sections are always empty here. A Message is built
// fresh per inbound packet and discarded once the reply is written.
type Message struct {
	Header    Header
	Questions []Question
	Answers   []ResourceRecord
}

// QuestionCount returns the number of questions in the message.
func (m Message) QuestionCount() int {
	return len(m.Questions)
}

// AnswerCount returns the number of answer records in the message.
func (m Message) AnswerCount() int {
	return len(m.Answers)
}

// HasAnswers returns true if the message contains answer records.
func (m Message) HasAnswers() bool {
	return len(m.Answers) > 0
}
