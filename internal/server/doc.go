// Package server exposes diagram generation over the Model Context Protocol.
//
// The protocol layer is github.com/modelcontextprotocol/go-sdk. This package
// only declares tools, resources and prompts and maps them onto the diagram,
// plantuml, imaging and ocr packages.
//
// # Transports
//
// Run serves a single client over stdin/stdout. ServeHTTP serves any number
// of clients over the streamable HTTP transport. Logging always goes to the
// injected logger, never to stdout.
//
// # Available Tools
//
// Diagram generation:
//   - generate_uml: Render any supported diagram type
//   - generate_<type>_diagram: One tool per diagram type (class, sequence,
//     activity, usecase, state, component, deployment, object, mermaid, d2,
//     graphviz, erd, plus any type added in the config file)
//
// Setup and verification:
//   - check_plantuml_setup: Report whether Java and plantuml.jar are usable
//   - diagram_image_info: Dimensions and format of a rendered raster diagram
//   - diagram_extract_text: OCR a rendered diagram and check expected labels
//   - diagram_zoom: Magnify one region of a rendered diagram
//
// # Results
//
// Every tool answers with a text content block holding indented JSON. When
// a diagram is rendered to PNG, JPEG or GIF, an inline PNG preview no larger
// than 1024x1024 follows it. Failures are reported as tool results with
// isError set, never as protocol errors, so the model sees the message.
//
// # Resources
//
//   - uml://types: Diagram types with backend, description and formats
//   - uml://templates: Starter markup per type
//   - uml://examples: Complete example per type
//   - uml://formats: Output formats per type
//   - uml://server-info: Server version, endpoints, tools and prompts
//
// # Prompts
//
// uml_diagram, class_diagram, sequence_diagram, activity_diagram and
// usecase_diagram each take an optional description argument.
package server
