// Code generated by hand for the tests. DO NOT EDIT.

package generated

// Generated files are ignored even if a comment is going over the limit of eighty characters.
var Value = 1
