// Package wiki converts a GitHub-style markdown wiki into a gemtext capsule.
//
// The wiki is either cloned shallowly with go-git or read from a local
// checkout. Every markdown page is parsed with goldmark and rendered as
// gemtext: headings are clamped to three levels, link targets are copied
// onto their own "=>" lines after the block they appear in, and raw HTML is
// dropped. Each page receives a title, a page list and the converted footer.
package wiki
