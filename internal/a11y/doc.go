// Package a11y runs the accessibility scan pipeline for a single page:
// validate the URL, open a browser session, navigate, inject the axe-core
// ruleset, run it at WCAG 2 levels A and AA, compute the DOM heuristics and
// release the browser.
//
// Results coming back from the page are decoded strictly into the typed
// records of the model package; any shape mismatch fails the scan.
package a11y

//go:generate sh ../../scripts/fetch-axe.sh ../../assets/axe.min.js
