package summarizer

const summarizePromptTemplate = `
Your task is to summarize relevant information in 'SEARCH_OUTPUT'. The summary must only contain relevant information with respect to the SEARCH_QUERY. You must adhere to the following 'INSTRUCTIONS'.

INSTRUCTIONS:
* Carefully read the 'SEARCH_QUERY'
* Select only the most relevant information from 'SEARCH_OUTPUT' that is useful and relevant and could help answering the search query
* An information can be considered relevant if it might support or refute the search query
* Examine if the information in search output relates to the search query or not
* Solely respond with "Error", if there is no relevant information in 'SEARCH_OUTPUT'.
* Summarize the most relevant information in a way that is concise and informative and include the dates mentioned
* You must not infer or add any new information, but only summarize the existing statements in an unbiased way
* If there is conflicting information, you must include both sides of the argument in the summary
* If there are dates mentioned along with the relevant information, you must include them.
* Do not include any other contents in your response.

SEARCH_QUERY:
%s

SEARCH_OUTPUT:
` + "```" + `
%s
` + "```" + `

OUTPUT_FORMAT:
* Only output the summary containing the most relevant information from 'SEARCH_OUTPUT' that may help to answer the search query and reveal if the event happens and on what date the event is expected to occur.
* The summary must be structured in comprehensive bulletpoints.
* Solely respond with "Error", if there is no relevant information in 'SEARCH_OUTPUT'.
`

const selectPromptTemplate = `
You are provided with search outputs from multiple sources. These search outputs were received in response to the search query found below. Your task is to select a collection of unique and most relevant bulletpoints that may help to answer the search query and reveal if the event happens and on which date the event is expected to occur.

INSTRUCTIONS:
* Carefully read the search query
* Select only the relevant bulletpoints from the search outputs that are useful and relevant and could help answering the search query
* An information can be considered relevant if it might support or refute the search query
* An information must also be considered relevant if it reveals a specific date or time frame when the event is expected to occur
* If there are redundant bulletpoints, you must drop all except for one. Select the most relevant by two criteria:
    - Firstly: Select the one that mentions specific dates over the ones that mention relative dates or week days
    - Secondly: Select the one that is listed more to the bottom of the search output
* If there are conflicting information, you must include both sides of the argument in the selected bulletpoints

SEARCH_OUTPUT:
` + "```" + `
%s
` + "```" + `

SEARCH_QUERY: %s
SUB_QUERIES:
- Will the event happen?
- On what date will the event happen? (DD/MM/YYYY)
- Has the event happened already?

OUTPUT_FORMAT:
* Only output the collection of five selected unique and relevant bulletpoints with the corresponding numbers in parentheses.
* The bulletpoints should be useful and relevant and help answering the search query and sub-queries.
`
