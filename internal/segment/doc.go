// Package segment decides which crawled URLs belong in llms.txt and which
// section each one is listed under, based on the segments of the URL path.
package segment
