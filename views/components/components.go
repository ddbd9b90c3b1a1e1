// Package components holds the reusable page fragments. They are plain
// templ.Components so handlers can render them as full pages or HTMX swaps.
package components

// ResultsID is the element the listing fragment replaces.
const ResultsID = "campaign-results"

// DonationFormID is the element a re-rendered donation form replaces.
const DonationFormID = "donation-form"

// ContactFormID is the element a re-rendered contact form replaces.
const ContactFormID = "contact-form"
