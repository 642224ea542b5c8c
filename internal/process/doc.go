// Package process stops the browser started for PDF export together with
// the renderer and GPU helpers it forks.
package process
