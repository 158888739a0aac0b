package models

import (
	"time"

	"gorm.io/gorm"
)

// Blog post statuses.
const (
	BlogPostStatusDraft     = "draft"
	BlogPostStatusPublished = "published"
)

// BlogCategory groups blog posts.
type BlogCategory struct {
	gorm.Model
	Name string `json:"name" gorm:"size:150;not null" binding:"required"`
	Slug string `json:"slug" gorm:"size:160;uniqueIndex"`
}

func (bc *BlogCategory) BeforeCreate(tx *gorm.DB) error {
	if bc.Slug == "" {
		slug, err := generateUniqueSlug(tx, &BlogCategory{}, bc.Name)
		if err != nil {
			return err
		}
		bc.Slug = slug
	}
	return nil
}

// BlogPost is an article on the travel blog.
type BlogPost struct {
	gorm.Model
	Title string `json:"title" gorm:"size:200;not null" binding:"required"`
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex"`

	CategoryID *uint         `json:"category_id" gorm:"index"`
	Category   *BlogCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Excerpt   string `json:"excerpt"`
	HeroImage string `json:"hero_image" gorm:"size:300"`
	CardImage string `json:"card_image" gorm:"size:300"`

	Status      string     `json:"status" gorm:"size:20;index;default:draft"`
	PublishedAt *time.Time `json:"published_at"`

	Sections []BlogSection `gorm:"foreignKey:BlogPostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sections,omitempty"`
}

func (bp *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if bp.Slug == "" {
		slug, err := generateUniqueSlug(tx, &BlogPost{}, bp.Title)
		if err != nil {
			return err
		}
		bp.Slug = slug
	}
	return nil
}

// BlogSection is one heading/body block inside a post.
type BlogSection struct {
	gorm.Model
	BlogPostID   uint   `json:"blog_post_id" gorm:"index"`
	Heading      string `json:"heading" gorm:"size:200"`
	Body         string `json:"body"`
	SectionImage string `json:"section_image" gorm:"size:300"`
	Position     int    `json:"position" gorm:"default:0"`
}
