// Package contents lists repository directories through the GitHub
// contents API.
//
// Two listers are provided:
//   - RESTLister issues the GET itself and decodes the JSON array
//   - GitHubLister goes through google/go-github
//
// Both return domain.DirEntry items in listing order and report failures
// as *domain.ListingError, *domain.ParseError or *domain.TransportError.
package contents
