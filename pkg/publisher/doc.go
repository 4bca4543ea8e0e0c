// Package publisher drives an upload page through a fixed sequence of
// steps: open the page, attach the video file, fill in the caption, press
// the post button, then give the site time to accept the submission.
//
// The page itself is abstracted by Page, which pkg/browser implements on
// top of Chrome. What to click is described by a Script, loadable from
// YAML so selector changes on the site do not need a rebuild:
//
//	url: https://www.tiktok.com/upload
//	file_input: 'input[type="file"]'
//	caption: '[placeholder="Describe your video"]'
//	post_button: 'xpath=//button[normalize-space(.)="Post"]'
//	element_timeout: 60s
//	settle_delay: 8s
//
// Selectors are CSS unless prefixed with "xpath=" or starting with "//".
package publisher
