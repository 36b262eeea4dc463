// Package kroki renders diagrams through a Kroki server and builds links to
// the public playgrounds for PlantUML, Mermaid and D2.
//
// Diagram source travels in the URL: it is zlib-compressed and base64url
// encoded, so a rendered diagram is addressable by a plain GET and the URL
// can be handed to users as-is.
//
//	c := kroki.New("https://kroki.io")
//	d, err := c.Generate(ctx, "plantuml", "@startuml\nA -> B\n@enduml", "svg")
//
// Requests are retried by go-retryablehttp. Non-2xx answers come back as
// *HTTPError, transport failures as *ConnectionError.
package kroki
