// Package comments is used to test the comment length analyzer.
package comments

// Short is a short comment.
var Short = 1

// Long has a comment that is definitely going over the limit of eighty characters. // want `comment too long`
var Long = 2

//go:generate echo "a directive is never reported even if its length is larger than the limit"
