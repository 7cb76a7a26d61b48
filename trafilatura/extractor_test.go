package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsPage = `<!DOCTYPE html>
<html lang="ro">
<head>
<title>Guvernul a aprobat bugetul - Radio România Internațional</title>
<meta property="og:title" content="Guvernul a aprobat bugetul">
<meta name="description" content="Executivul a adoptat proiectul de buget pentru anul viitor.">
<meta name="author" content="Ana Popescu">
<meta property="og:image" content="https://www.rri.ro/images/buget.jpg">
<meta property="article:published_time" content="2024-03-12T09:30:00+02:00">
</head>
<body>
<nav class="main-nav"><a href="/">Acasă</a><a href="/actualitate">Actualitate</a></nav>
<article>
<h1>Guvernul a aprobat bugetul</h1>
<p>Executivul de la București a adoptat miercuri proiectul de buget pentru anul viitor, după mai multe runde de consultări cu partenerii sociali.</p>
<p>Documentul urmează să fie trimis Parlamentului, unde dezbaterile vor începe săptămâna viitoare în comisiile de specialitate.</p>
</article>
<footer><p>Copyright Radio România Internațional</p></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts article body", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(newsPage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "proiectul de buget")
		assert.Contains(t, result.ContentHTML, "trimis Parlamentului")
	})

	t.Run("removes navigation and footer", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(newsPage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "main-nav")
		assert.NotContains(t, result.ContentHTML, "Copyright Radio")
	})

	t.Run("extracts metadata", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(newsPage)

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Guvernul a aprobat bugetul")
		assert.Equal(t, "Ana Popescu", result.Author)
		assert.Equal(t, "https://www.rri.ro/images/buget.jpg", result.Image)
		assert.NotEmpty(t, result.Description)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("")

		require.Error(t, err)
		assert.Equal(t, rriharvest.EINVALID, rriharvest.ErrorCode(err))
	})
}
