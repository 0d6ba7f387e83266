// Package treedoc reads virtual trees from YAML documents.
//
// A document is a sequence of nodes. An element has a tag, a text node has
// text; both may carry a key and a static flag. A null entry is an absent
// optional subtree.
//
//	# a todo list
//	- tag: ul
//	  static: true
//	  attrs:
//	    - {name: class, value: todo}
//	    - {name: hidden, value: false}
//	  children:
//	    - tag: li
//	      key: milk
//	      attrs:
//	        - {name: data-done}
//	      children:
//	        - text: milk
//	    - ~
//
// An attribute value of true, or no value at all, is a boolean attribute;
// false and null remove the attribute. Integer keys become vdom.Int keys,
// everything else vdom.Str keys.
//
// A file may hold several YAML documents separated by ---; each one is a
// successive version of the same tree. An element that keeps its key (or
// position) and tag across versions must list the same attribute names in
// the same order, using null for an absent value, and a static text must
// keep its content. Parse rejects versions that break this.
package treedoc
