// Package selector computes the ordered list of fragment locators one
// resolution call loads.
//
// The list starts from the caller's base locators. Each criterion then
// traverses one of the call's context mappings (pillar, grains, or opts)
// along a colon-delimited path; when the traversal result matches, the
// criterion's locators are appended. Criteria are evaluated in the order
// supplied, matched locators keep that order, and duplicates are preserved:
// repeating a locator re-merges its fragment.
//
// Selection is a pure function of its inputs. A missing path segment simply
// means "no match"; an unsupported scope name is a configuration error and
// fails the whole call before anything is loaded.
package selector
