package invocation

import (
	"encoding/json"
)

// Response is the outcome of an invocation. Exactly one of Answer and Error
// is meaningful; the JSON form carries a single key.
type Response struct {
	Answer string
	Error  string
}

// Success wraps a final answer.
func Success(answer string) Response {
	return Response{Answer: answer}
}

// Failure wraps an error description.
func Failure(err error) Response {
	return Response{Error: err.Error()}
}

// Failed reports whether the response carries an error.
func (r Response) Failed() bool {
	return r.Error != ""
}

// MarshalJSON renders {"response": ...} or {"error": ...}.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	return json.Marshal(map[string]string{"response": r.Answer})
}

// UnmarshalJSON accepts either form.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Answer, r.Error = raw.Response, raw.Error
	return nil
}
