// Package fragment defines the shared vocabulary for overlay fragments:
// locators, the bindings a fragment template renders against, and the
// sentinel errors loaders report.
//
// A Locator names one template file, relative to a loader's root. Locators
// may embed the {env} placeholder, substituted with the active compile
// environment before lookup. Index locators resolve to a newline-delimited
// list of concrete fragment locators; concrete locators resolve to YAML
// documents with a mapping at the top level.
package fragment
