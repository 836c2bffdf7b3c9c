// Package twiml builds the XML voice-response documents the telephony
// gateway executes: an ordered sequence of Say, Play, Gather, Redirect and
// Hangup directives.
package twiml

import (
	"bytes"
	"encoding/xml"
)

// ContentType is the response content type the gateway expects.
const ContentType = "text/xml"

// Say speaks text using the gateway's built-in voice. Used for scripted
// fallbacks when synthesis is unavailable.
type Say struct {
	XMLName xml.Name `xml:"Say"`
	Text    string   `xml:",chardata"`
}

// Play plays a previously synthesized audio asset by URL.
type Play struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:",chardata"`
}

// Gather collects the caller's next utterance and posts the transcription
// to Action. Nested Say/Play directives are spoken while gathering.
type Gather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr"`
	Verbs         []interface{}
}

// Redirect transfers control to another webhook address.
type Redirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr,omitempty"`
	URL     string   `xml:",chardata"`
}

// Hangup ends the call.
type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Response is the root voice-response document.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []interface{}
}

func NewResponse() *Response {
	return &Response{}
}

func (r *Response) Say(text string) *Response {
	r.Verbs = append(r.Verbs, Say{Text: text})
	return r
}

func (r *Response) Play(url string) *Response {
	r.Verbs = append(r.Verbs, Play{URL: url})
	return r
}

// GatherSpeech appends a speech gather posting to action, and returns it so
// nested Play/Say prompts can be attached.
func (r *Response) GatherSpeech(action string) *Gather {
	g := &Gather{
		Input:         "speech",
		Action:        action,
		Method:        "POST",
		SpeechTimeout: "auto",
	}
	r.Verbs = append(r.Verbs, g)
	return g
}

func (r *Response) Redirect(url string) *Response {
	r.Verbs = append(r.Verbs, Redirect{Method: "POST", URL: url})
	return r
}

func (r *Response) Hangup() *Response {
	r.Verbs = append(r.Verbs, Hangup{})
	return r
}

func (g *Gather) Say(text string) *Gather {
	g.Verbs = append(g.Verbs, Say{Text: text})
	return g
}

func (g *Gather) Play(url string) *Gather {
	g.Verbs = append(g.Verbs, Play{URL: url})
	return g
}

// Render serializes the document with the XML declaration prepended.
func (r *Response) Render() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
