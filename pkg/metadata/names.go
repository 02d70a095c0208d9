package metadata

// ReleaseDateNames lists meta-tag name/property aliases that carry a release
// or original-publication date, in lookup order. Only these aliases feed the
// publication date field.
var ReleaseDateNames = []string{
	"date",
	"pubdate",
	"publishdate",
	"OriginalPublicationDate",
	"dateCreated",
	"article:published_time",
	"sailthru.date",
	"article.published",
	"published-date",
	"og:published_time",
	"publication_date",
	"publishedDate",
	"dc.date",
	"DC.date",
	"article:published",
	"article_date_original",
	"cXenseParse:recs:publishtime",
	"DATE_PUBLISHED",
	"pub-date",
	"datePublished",
	"date_published",
	"ArticleDate",
	"time_published",
	"article:published_date",
	"parsely-pub-date",
	"publish-date",
	"pubdatetime",
	"published_time",
	"publishedtime",
	"article_date",
	"created_date",
	"published_at",
	"lastPublishedDate",
	"og:release_date",
	"og:publication_date",
	"og:pubdate",
	"article:publication_date",
	"product:availability_starts",
	"product:release_date",
	"event:start_date",
	"event:release_date",
	"og:time_published",
	"og:start_date",
	"og:created",
	"og:creation_date",
	"og:launch_date",
	"og:first_published",
	"og:original_publication_date",
	"article:pub_date",
	"news:published_time",
	"news:publication_date",
	"blog:published_time",
	"blog:publication_date",
	"report:published_time",
	"report:publication_date",
	"webpage:published_time",
	"webpage:publication_date",
	"post:published_time",
	"post:publication_date",
	"item:published_time",
	"item:publication_date",
}

// updateDateNames lists aliases that carry a last-modified date. They are
// deliberately never consulted for the publication date field; a page that
// only advertises a modification time stays undated.
var updateDateNames = []string{
	"lastmod",
	"lastmodified",
	"last-modified",
	"updated",
	"dateModified",
	"article:modified_time",
	"modified_date",
	"article:modified",
	"og:updated_time",
	"mod_date",
	"modifiedDate",
	"lastModifiedDate",
	"lastUpdate",
	"last_updated",
	"LastUpdated",
	"UpdateDate",
	"updated_date",
	"revision_date",
	"sentry:revision",
	"article:modified_date",
	"date_updated",
	"time_updated",
	"lastUpdatedDate",
	"last-update-date",
	"lastupdate",
	"dateLastModified",
	"article:update_time",
	"modified_time",
	"last_modified_date",
	"date_last_modified",
	"og:modified_time",
	"og:modification_date",
	"og:mod_time",
	"article:modification_date",
	"product:availability_ends",
	"product:modified_date",
	"event:end_date",
	"event:updated_date",
	"og:time_modified",
	"og:end_date",
	"og:last_modified",
	"og:revision_date",
	"og:last_updated",
	"og:most_recent_update",
	"article:updated",
	"article:mod_date",
	"news:updated_time",
	"news:modification_date",
	"blog:updated_time",
	"blog:modification_date",
	"report:updated_time",
	"report:modification_date",
	"webpage:updated_time",
	"webpage:modification_date",
	"post:updated_time",
	"post:modification_date",
	"item:updated_time",
	"item:modification_date",
}
