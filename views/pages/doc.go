// Package pages composes components into full HTML documents.
package pages
