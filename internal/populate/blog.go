package populate

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/folio/internal/content"
	"github.com/ziadkadry99/folio/internal/model"
	"github.com/ziadkadry99/folio/internal/page"
	"github.com/ziadkadry99/folio/internal/render"
)

// RecentPosts is how many posts the sidebar lists.
const RecentPosts = 3

// BlogList populates blog.html with a card per post and the recent-posts
// sidebar. An empty collection leaves the page untouched.
func BlogList(posts []model.Post, basePath string) View {
	var v View
	if len(posts) == 0 {
		return v
	}

	var b strings.Builder
	for _, post := range posts {
		b.WriteString(`<div class="blog-item" data-aos="zoom-in">`)
		writeCover(&b, basePath, post.Image)
		b.WriteString(`<div class="content">`)
		writeMeta(&b, post)
		fmt.Fprintf(&b, `<h1><a href="%s">%s</a></h1>`, detailHref(post.ID), render.Content(post.Title))
		fmt.Fprintf(&b, `<p>%s</p>`, render.Content(post.Excerpt))
		fmt.Fprintf(&b, `<a href="%s" class="theme-btn">Read More</a>`, detailHref(post.ID))
		b.WriteString(`</div></div>`)
	}
	v.html("blog-items-list", b.String())
	v.html("blog-recent-posts", recentPosts(posts))
	return v
}

// BlogDetail populates blog-details.html with the post named by the page
// context, or the first post when the id is missing or matches nothing.
// An empty collection is a not-found error.
func BlogDetail(posts []model.Post, pc page.Context, owner, basePath string) (View, error) {
	if len(posts) == 0 {
		return View{}, content.NotFound("blog post")
	}

	post := posts[0]
	if pc.HasPostID {
		if found, ok := model.FindPost(posts, pc.PostID); ok {
			post = found
		}
	}

	var v View
	// An untitled post leaves the document title alone.
	v.Title = post.Title
	if post.Title != "" && owner != "" {
		v.Title = post.Title + " - " + owner
	}

	var b strings.Builder
	writeCover(&b, basePath, post.Image)
	writeMeta(&b, post)
	fmt.Fprintf(&b, `<h1>%s</h1>`, render.Content(post.Title))
	for _, para := range post.Content {
		fmt.Fprintf(&b, `<p>%s</p>`, render.Content(para))
	}
	if len(post.Bullets) > 0 {
		b.WriteString(`<ul class="list">`)
		for _, item := range post.Bullets {
			fmt.Fprintf(&b, `<li>- %s</li>`, render.Content(item))
		}
		b.WriteString(`</ul>`)
	}
	if post.Closing != "" {
		fmt.Fprintf(&b, `<p>%s</p>`, render.Content(post.Closing))
	}
	if len(post.Tags) > 0 {
		b.WriteString(`<div class="tags">`)
		for _, tag := range post.Tags {
			fmt.Fprintf(&b, `<a href="#" class="theme-btn">%s</a>`, render.Content(tag))
		}
		b.WriteString(`</div>`)
	}
	v.html("blog-detail-content", b.String())
	v.html("blog-recent-posts", recentPosts(posts))
	return v, nil
}

func recentPosts(posts []model.Post) string {
	if len(posts) > RecentPosts {
		posts = posts[:RecentPosts]
	}
	var b strings.Builder
	for _, post := range posts {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, detailHref(post.ID), render.Content(post.Title))
	}
	return b.String()
}

func writeCover(b *strings.Builder, basePath, image string) {
	if image == "" {
		return
	}
	fmt.Fprintf(b, `<div class="img-box"><img src="%s" alt="Blog"></div>`, render.Attribute(basePath+image))
}

func writeMeta(b *strings.Builder, post model.Post) {
	fmt.Fprintf(b, `<span class="meta">%s - %s</span>`, render.Content(post.Date), render.Content(post.Category))
}

func detailHref(id string) string {
	return "blog-details.html?id=" + render.Attribute(id)
}
