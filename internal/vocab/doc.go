// Package vocab loads vocabulary files. A vocabulary file holds one entry
// per line as tab-separated fields: an integer id, the phrase, and any
// number of tags. Lines starting with '#' are comments.
package vocab
