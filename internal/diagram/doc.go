// Package diagram knows which diagram types the server offers and turns a
// render request into a file on disk.
//
// Every type maps to a Kroki backend. PlantUML-backed types are rendered
// with the local Java runtime when one is configured and through Kroki
// otherwise; everything else always goes to Kroki.
package diagram
